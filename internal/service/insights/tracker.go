package insights

import (
	"context"
	"sync"
	"time"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

// State of the background analysis.
type State string

const (
	StateIdle     State = "idle"
	StatePending  State = "pending"
	StateResolved State = "resolved"
)

// Status is what the analysis panel shows.
type Status struct {
	State     State     `json:"state"`
	Text      string    `json:"text,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Tracker runs analyses in the background and keeps the latest result.
// Overlapping runs are allowed; whichever finishes last sets the text.
type Tracker struct {
	service *Service
	now     func() time.Time

	mu       sync.Mutex
	status   Status
	inFlight int
}

// NewTracker returns an idle tracker.
func NewTracker(service *Service) *Tracker {
	return &Tracker{service: service, now: time.Now, status: Status{State: StateIdle}}
}

// Start launches an analysis of data and returns at once. The returned channel is closed when
// this run has stored its result.
func (t *Tracker) Start(data models.AppData) <-chan struct{} {
	t.mu.Lock()
	t.inFlight++
	t.status.State = StatePending
	t.status.UpdatedAt = t.now()
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		text := t.service.Analyze(context.Background(), data)

		t.mu.Lock()
		defer t.mu.Unlock()
		t.inFlight--
		t.status.Text = text
		t.status.UpdatedAt = t.now()
		if t.inFlight == 0 {
			t.status.State = StateResolved
		}
	}()
	return done
}

// Status returns the current state and the latest text.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}
