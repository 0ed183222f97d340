package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b     State
		expected float64
	}{
		{State{0, 0}, State{3, 4}, 5.0},
		{State{1, 1}, State{1, 1}, 0.0},
		{State{1, 0, 0}, State{0, 0, 0}, 1.0},
		{State{-1, -1, -1, -1}, State{0, 0, 0, 0}, 2.0},
	}

	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestNewStateSpaceSet(t *testing.T) {
	set, err := NewStateSpaceSet([]State{{0, 0}, {1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 3 || set.Dim() != 2 {
		t.Errorf("got len=%d dim=%d, want 3 and 2", set.Len(), set.Dim())
	}
	if idx := set.Index(State{1, 0}); idx != 1 {
		t.Errorf("Index = %d, want 1", idx)
	}
	if idx := set.Index(State{5, 5}); idx != -1 {
		t.Errorf("Index of missing point = %d, want -1", idx)
	}
}

func TestNewStateSpaceSet_CopiesInput(t *testing.T) {
	src := []State{{1, 2}, {3, 4}}
	set, err := NewStateSpaceSet(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src[0][0] = 99
	if set.At(0)[0] == 99 {
		t.Error("set shares memory with caller")
	}
}

func TestNewStateSpaceSet_Errors(t *testing.T) {
	tests := []struct {
		name   string
		points []State
		want   error
	}{
		{"empty", nil, ErrEmptySet},
		{"zero dimension", []State{{}}, ErrDimensionMismatch},
		{"ragged", []State{{1, 2}, {1}}, ErrDimensionMismatch},
		{"nan", []State{{1, 2}, {math.NaN(), 0}}, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStateSpaceSet(tt.points)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("DefaultConfig has invalid Dt")
	}
	if cfg.Samples <= 0 {
		t.Error("DefaultConfig has invalid Samples")
	}
	if cfg.Stride <= 0 {
		t.Error("DefaultConfig has invalid Stride")
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Message: "test error"}
	expected := "step 150 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
}
