package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

// recordingService captures every dispatched event, tracking order per lead.
type recordingService struct {
	mu     sync.Mutex
	byLead map[string][]domain.Event
	total  int
	done   chan struct{}
	expect int
}

func newRecordingService(expect int) *recordingService {
	return &recordingService{
		byLead: make(map[string][]domain.Event),
		done:   make(chan struct{}),
		expect: expect,
	}
}

func (s *recordingService) HandleEvent(_ context.Context, event domain.Event) ([]*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byLead[event.LeadRef()] = append(s.byLead[event.LeadRef()], event)
	s.total++
	if s.total == s.expect {
		close(s.done)
	}
	return nil, nil
}

func (s *recordingService) List(context.Context, domain.Actor, int, int) (*ports.ListNotificationsResult, error) {
	return nil, nil
}
func (s *recordingService) UnreadCount(context.Context, domain.Actor) (int64, error) { return 0, nil }
func (s *recordingService) MarkRead(context.Context, domain.Actor, string) (*domain.Notification, error) {
	return nil, nil
}
func (s *recordingService) MarkAllRead(context.Context, domain.Actor) error { return nil }

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatches")
	}
}

func TestDispatcher_DeliversAllEvents(t *testing.T) {
	svc := newRecordingService(10)
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Emit(domain.StatusChanged{LeadID: fmt.Sprintf("lead%d", i)})
	}
	waitFor(t, svc.done)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.total != 10 {
		t.Errorf("delivered %d events, want 10", svc.total)
	}
}

func TestDispatcher_PerLeadOrderPreserved(t *testing.T) {
	const events = 50
	svc := newRecordingService(events)
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Interleave two leads; each lead's sequence must come out in emit order.
	for i := 0; i < events; i++ {
		lead := "leadA"
		if i%2 == 1 {
			lead = "leadB"
		}
		d.Emit(domain.StatusChanged{
			LeadID:   lead,
			Previous: domain.LeadStatus(fmt.Sprintf("seq%d", i)),
		})
	}
	waitFor(t, svc.done)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, lead := range []string{"leadA", "leadB"} {
		seen := svc.byLead[lead]
		last := -1
		for _, ev := range seen {
			var seq int
			fmt.Sscanf(string(ev.(domain.StatusChanged).Previous), "seq%d", &seq)
			if seq <= last {
				t.Fatalf("%s: events out of order: %d after %d", lead, seq, last)
			}
			last = seq
		}
	}
}

func TestDispatcher_OutlivesOtherContexts(t *testing.T) {
	svc := newRecordingService(3)
	d := NewDispatcher(2, svc, zerolog.Nop())

	dispatchCtx, stop := context.WithCancel(context.Background())
	defer stop()
	d.Start(dispatchCtx)

	// Simulates shutdown: the server's context is already cancelled while
	// draining requests still emit events. Workers run off their own
	// context, so those events must still be handled.
	serverCtx, cancelServer := context.WithCancel(context.Background())
	cancelServer()
	<-serverCtx.Done()

	for i := 0; i < 3; i++ {
		d.Emit(domain.StatusChanged{LeadID: fmt.Sprintf("lead%d", i)})
	}
	waitFor(t, svc.done)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.total != 3 {
		t.Errorf("delivered %d events, want 3", svc.total)
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(8, newRecordingService(0), zerolog.Nop())

	for _, id := range []string{"lead1", "lead2", "another-lead"} {
		first := d.shardIndex(id)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("shard for %q not stable: %d then %d", id, first, got)
			}
		}
	}
}
