// Package wizard implements the multi-step editor flow: a bounded step
// cursor with per-step validation, optional and disabled steps, completion
// tracking, and the progress bar value shown to the user.
package wizard

import (
	"context"
	"sync"
)

// Status is the display state of a step.
type Status string

const (
	// StatusCompleted means the step was passed with a successful validation
	StatusCompleted Status = "completed"
	// StatusCurrent marks the step under the cursor
	StatusCurrent Status = "current"
	// StatusUpcoming is any other step
	StatusUpcoming Status = "upcoming"
)

// ValidateFunc decides whether the current step may be left going forward.
// Returning false blocks the transition; returning an error also blocks it
// and is reported to the caller.
type ValidateFunc func(ctx context.Context) (bool, error)

// Step describes one wizard page.
type Step struct {
	Title    string
	Optional bool
	Disabled bool
	Validate ValidateFunc
}

// Option configures a Stepper.
type Option func(*Stepper)

// WithMarkVisitedAsCompleted keeps completion marks when moving backwards.
func WithMarkVisitedAsCompleted(mark bool) Option {
	return func(s *Stepper) {
		s.markVisited = mark
	}
}

// Stepper is a step cursor over a fixed list of steps. Steps are numbered
// from 1 and the cursor always stays within [1, Total]. It is safe for
// concurrent use; validation hooks run without the lock held.
type Stepper struct {
	mu          sync.Mutex
	steps       []Step
	current     int
	completed   map[int]bool
	markVisited bool
}

// New creates a stepper positioned on step 1.
func New(steps []Step, opts ...Option) (*Stepper, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	s := &Stepper{
		steps:     append([]Step(nil), steps...),
		current:   1,
		completed: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Current returns the 1-based current step.
func (s *Stepper) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Total returns the number of steps.
func (s *Stepper) Total() int {
	return len(s.steps)
}

// Next validates the current step and, when it passes, marks it completed
// and advances to the next enabled step. The cursor stays put when no
// enabled step follows. It reports whether validation passed.
func (s *Stepper) Next(ctx context.Context) (bool, error) {
	s.mu.Lock()
	from := s.current
	step := s.steps[from-1]
	s.mu.Unlock()

	if step.Validate != nil {
		ok, err := step.Validate(ctx)
		if err != nil {
			return false, &ValidationError{Step: from, Title: step.Title, Cause: err}
		}
		if !ok {
			return false, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another caller moved the cursor while we validated.
	if s.current != from {
		return false, nil
	}
	s.completed[from] = true
	if to := s.nextEnabled(from); to > 0 {
		s.current = to
	}
	return true, nil
}

// Skip behaves like Next but is only allowed on optional steps.
func (s *Stepper) Skip(ctx context.Context) (bool, error) {
	s.mu.Lock()
	optional := s.steps[s.current-1].Optional
	s.mu.Unlock()

	if !optional {
		return false, ErrNotOptional
	}
	return s.Next(ctx)
}

// Prev moves to the nearest preceding enabled step and reports whether the
// cursor moved. Unless visited steps stay completed, the completion marks
// from the target through the step being left are cleared.
func (s *Stepper) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	to := s.prevEnabled(s.current)
	if to == 0 {
		return false
	}
	if !s.markVisited {
		for n := to; n <= s.current; n++ {
			delete(s.completed, n)
		}
	}
	s.current = to
	return true
}

// GoTo jumps straight to step n without touching completion marks.
func (s *Stepper) GoTo(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 1 || n > len(s.steps) {
		return &StepRangeError{Step: n, Total: len(s.steps)}
	}
	if s.steps[n-1].Disabled {
		return ErrStepDisabled
	}
	s.current = n
	return nil
}

// Reset returns to step 1 and clears all completion marks.
func (s *Stepper) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = 1
	s.completed = make(map[int]bool)
}

// SetDisabled enables or disables step n.
func (s *Stepper) SetDisabled(n int, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 1 || n > len(s.steps) {
		return &StepRangeError{Step: n, Total: len(s.steps)}
	}
	s.steps[n-1].Disabled = disabled
	return nil
}

// IsCompleted reports whether step n carries a completion mark.
func (s *Stepper) IsCompleted(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed[n]
}

// Status returns the display state of step n.
func (s *Stepper) Status(n int) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status(n)
}

func (s *Stepper) status(n int) Status {
	switch {
	case s.completed[n]:
		return StatusCompleted
	case n == s.current:
		return StatusCurrent
	default:
		return StatusUpcoming
	}
}

// Progress returns the progress bar value in percent for the current step.
func (s *Stepper) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress(s.current, len(s.steps))
}

// Progress computes the bar value for step current of total. Entering the
// second step and entering the last step each count for one and a half
// regular shares.
func Progress(current, total int) float64 {
	if total <= 0 {
		return 0
	}
	idx := current - 1
	if idx <= 0 {
		return 0
	}
	if idx >= total-1 {
		return 100
	}
	base := 100 / float64(total)
	return 1.5*base + base*float64(idx-1)
}

func (s *Stepper) nextEnabled(from int) int {
	for n := from + 1; n <= len(s.steps); n++ {
		if !s.steps[n-1].Disabled {
			return n
		}
	}
	return 0
}

func (s *Stepper) prevEnabled(from int) int {
	for n := from - 1; n >= 1; n-- {
		if !s.steps[n-1].Disabled {
			return n
		}
	}
	return 0
}

// StepView is the serialisable state of one step.
type StepView struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Optional bool   `json:"optional"`
	Disabled bool   `json:"disabled"`
	Status   Status `json:"status"`
}

// State is a point-in-time view of the stepper.
type State struct {
	Current  int        `json:"current"`
	Total    int        `json:"total"`
	Progress float64    `json:"progress"`
	Steps    []StepView `json:"steps"`
}

// State returns a snapshot of the cursor and every step's status.
func (s *Stepper) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]StepView, len(s.steps))
	for i, st := range s.steps {
		n := i + 1
		views[i] = StepView{
			Number:   n,
			Title:    st.Title,
			Optional: st.Optional,
			Disabled: st.Disabled,
			Status:   s.status(n),
		}
	}
	return State{
		Current:  s.current,
		Total:    len(s.steps),
		Progress: Progress(s.current, len(s.steps)),
		Steps:    views,
	}
}
