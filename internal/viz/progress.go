package viz

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/evtdim/internal/progress"
)

type (
	// ProgressMsg reports completed units.
	ProgressMsg struct{ Done, Total int }
	// FinishedMsg ends the program with the outcome of the work.
	FinishedMsg struct{ Err error }
	TickMsg     time.Time
)

// ProgressModel shows a spinner, a bar and a counter for a running batch.
type ProgressModel struct {
	title    string
	done     int
	total    int
	frame    int
	start    time.Time
	elapsed  time.Duration
	finished bool
	aborted  bool
	err      error
}

func NewProgressModel(title string, total int) ProgressModel {
	return ProgressModel{title: title, total: total, start: time.Now()}
}

func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/12, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.aborted = true
			return m, tea.Quit
		}
	case ProgressMsg:
		m.done, m.total = msg.Done, msg.Total
	case FinishedMsg:
		m.finished = true
		m.err = msg.Err
		m.elapsed = time.Since(m.start)
		if msg.Err == nil {
			m.done = m.total
		}
		return m, tea.Quit
	case TickMsg:
		if m.finished {
			return m, nil
		}
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m ProgressModel) View() string {
	fraction := 0.0
	if m.total > 0 {
		fraction = float64(m.done) / float64(m.total)
	}
	counter := fmt.Sprintf("%d/%d", m.done, m.total)

	switch {
	case m.aborted:
		return StatusError.Render("aborted") + " " + Subtle.Render(counter) + "\n"
	case m.finished && m.err != nil:
		return StatusError.Render("failed") + " " + m.err.Error() + "\n"
	case m.finished:
		return StatusOK.Render("done") + " " + Subtle.Render(fmt.Sprintf("%s in %s", counter, m.elapsed.Round(time.Millisecond))) + "\n"
	}
	return fmt.Sprintf("%s %s %s %s\n", Spinner(m.frame), Title.Render(m.title), ProgressBar(fraction, 30), Subtle.Render(counter))
}

// Aborted reports whether the user quit before the work finished.
func (m ProgressModel) Aborted() bool { return m.aborted }

// RunWithProgress runs work while a ProgressModel renders its progress on
// stderr. Quitting the program cancels the context passed to work.
func RunWithProgress(ctx context.Context, title string, total int, work func(context.Context, progress.Sink) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgressModel(title, total), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	sink := progress.NewCounter(total, func(done, total int) {
		p.Send(ProgressMsg{Done: done, Total: total})
	})

	result := make(chan error, 1)
	go func() {
		err := work(ctx, sink)
		result <- err
		p.Send(FinishedMsg{Err: err})
	}()

	_, runErr := p.Run()
	cancel()
	workErr := <-result
	if workErr != nil {
		return workErr
	}
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}
