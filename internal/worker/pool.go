// Package worker drains the event bus and materializes notifications.
package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/events"
	"github.com/tarea-pm/tarea/internal/models"
)

const defaultWorkers = 4

// Pool runs a fixed set of goroutines that consume domain events and write
// one notification row per target user. Delivery is best effort; a failed
// insert is logged and the event is not retried.
type Pool struct {
	store   database.Store
	bus     events.Publisher
	workers int
	wg      sync.WaitGroup
}

func NewPool(store database.Store, bus events.Publisher, workers int) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Pool{store: store, bus: bus, workers: workers}
}

// Start launches the workers. They exit when the bus is closed.
func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Wait blocks until every worker has drained and exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for event := range p.bus.Events() {
		p.handle(ctx, id, event)
	}
}

func (p *Pool) handle(ctx context.Context, id int, event events.Event) {
	notificationType, ok := notificationTypeFor(event.Type)
	if !ok {
		slog.Warn("unknown event type", "worker", id, "type", event.Type)
		return
	}

	for _, userID := range event.TargetUserIDs {
		// The actor already knows what they did.
		if userID == event.ActorID {
			continue
		}
		notification := &models.Notification{
			UserID:  userID,
			Type:    notificationType,
			Message: event.Message,
		}
		if event.TaskID != "" {
			taskID := event.TaskID
			notification.TaskID = &taskID
		}
		if event.ProjectID != "" {
			projectID := event.ProjectID
			notification.ProjectID = &projectID
		}
		if _, err := p.store.CreateNotification(ctx, notification); err != nil {
			slog.Error("failed to create notification",
				"worker", id, "user_id", userID, "type", event.Type, "error", err)
		}
	}
}

func notificationTypeFor(eventType events.EventType) (string, bool) {
	switch eventType {
	case events.EventTaskAssigned:
		return models.NotificationTaskAssigned, true
	case events.EventTaskStatusChanged:
		return models.NotificationTaskStatus, true
	case events.EventMemberAdded:
		return models.NotificationMemberAdded, true
	case events.EventTaskDueSoon:
		return models.NotificationTaskDue, true
	default:
		return "", false
	}
}
