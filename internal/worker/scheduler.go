package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/events"
	"github.com/tarea-pm/tarea/internal/models"
)

const defaultSweepInterval = time.Hour

// Scheduler periodically publishes due-soon reminder events for open tasks
// whose due date falls inside the reminder window. Each task is reminded at
// most once per process lifetime.
type Scheduler struct {
	store    database.Store
	bus      events.Publisher
	interval time.Duration

	mu       sync.Mutex
	reminded map[string]struct{}

	wg   sync.WaitGroup
	stop chan struct{}
	once sync.Once
}

func NewScheduler(store database.Store, bus events.Publisher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Scheduler{
		store:    store,
		bus:      bus,
		interval: interval,
		reminded: make(map[string]struct{}),
		stop:     make(chan struct{}),
	}
}

// Start runs an initial sweep, then sweeps on every tick until Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.Sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// Sweep publishes a reminder for every open task due within the window that
// has not been reminded yet.
func (s *Scheduler) Sweep(ctx context.Context) {
	tasks, err := s.store.TasksDueWithin(ctx, time.Now(), models.DueSoonDays)
	if err != nil {
		slog.Error("due-soon sweep failed", "error", err)
		return
	}

	for _, task := range tasks {
		if s.alreadyReminded(task.ID) {
			continue
		}

		assignees, err := s.store.GetTaskAssignees(ctx, task.ID)
		if err != nil {
			slog.Error("failed to load assignees", "task_id", task.ID, "error", err)
			continue
		}

		targets := make([]string, 0, len(assignees)+1)
		targets = append(targets, task.CreatedBy)
		for _, assignee := range assignees {
			if assignee.ID != task.CreatedBy {
				targets = append(targets, assignee.ID)
			}
		}

		s.bus.Publish(events.Event{
			Type:          events.EventTaskDueSoon,
			TargetUserIDs: targets,
			ProjectID:     task.ProjectID,
			TaskID:        task.ID,
			Message:       fmt.Sprintf("Task %q is due on %s", task.Title, task.DueDate.Format("2006-01-02")),
		})
		s.markReminded(task.ID)
	}
}

func (s *Scheduler) alreadyReminded(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.reminded[taskID]
	return ok
}

func (s *Scheduler) markReminded(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminded[taskID] = struct{}{}
}
