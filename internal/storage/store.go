package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/evtdim/internal/dimension"
)

const (
	metadataFile = "metadata.json"
	localFile    = "local.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                 string    `json:"id"`
	System             string    `json:"system,omitempty"`
	Input              string    `json:"input,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
	Seed               int64     `json:"seed"`
	Points             int       `json:"points"`
	Extraction         string    `json:"extraction"`
	ComputePersistence bool      `json:"compute_persistence"`
	Workers            int       `json:"workers"`
	ElapsedSeconds     float64   `json:"elapsed_seconds"`
	MeanDim            float64   `json:"mean_dim"`
	MeanTheta          *float64  `json:"mean_theta"`
}

// Save writes a new run directory holding meta and the per-point results.
// ID, Timestamp, Points and the means are filled in from res.
func (s *Store) Save(meta RunMetadata, res *dimension.Result) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now()
	meta.Points = len(res.Dims)
	meta.MeanDim = res.MeanDim()
	meta.MeanTheta = finite(res.MeanTheta())

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, localFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"index", "dim", "theta"}); err != nil {
		return "", err
	}
	for j := range res.Dims {
		row := []string{
			strconv.Itoa(j),
			strconv.FormatFloat(res.Dims[j], 'g', -1, 64),
			strconv.FormatFloat(res.Thetas[j], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadLocal reads the per-point dimensions and extremal indices of a run.
func (s *Store) LoadLocal(runID string) (*dimension.Result, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, localFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	res := &dimension.Result{}
	for i, record := range records {
		if i == 0 {
			continue
		}
		if len(record) != 3 {
			return nil, fmt.Errorf("run %s: line %d has %d fields, want 3", runID, i+1, len(record))
		}
		dim, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: line %d: %w", runID, i+1, err)
		}
		theta, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: line %d: %w", runID, i+1, err)
		}
		res.Dims = append(res.Dims, dim)
		res.Thetas = append(res.Thetas, theta)
	}
	return res, nil
}

type exportPoint struct {
	Index int      `json:"index"`
	Dim   float64  `json:"dim"`
	Theta *float64 `json:"theta"`
}

type export struct {
	Run    RunMetadata   `json:"run"`
	Points []exportPoint `json:"points"`
}

// ExportJSON writes a run and its per-point results as one JSON document.
// Missing extremal indices are written as null.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	res, err := s.LoadLocal(runID)
	if err != nil {
		return err
	}

	doc := export{Run: *meta, Points: make([]exportPoint, len(res.Dims))}
	for j := range res.Dims {
		doc.Points[j] = exportPoint{Index: j, Dim: res.Dims[j], Theta: finite(res.Thetas[j])}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
