package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/events"
	"github.com/tarea-pm/tarea/internal/models"
)

type notificationRecorder struct {
	database.Store
	mu      sync.Mutex
	created []*models.Notification
}

func (r *notificationRecorder) CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, n)
	return n, nil
}

func (r *notificationRecorder) all() []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Notification(nil), r.created...)
}

func TestPoolWritesNotificationPerTarget(t *testing.T) {
	recorder := &notificationRecorder{}
	bus := events.NewBus()

	pool := NewPool(recorder, bus, 2)
	pool.Start(context.Background())

	bus.Publish(events.Event{
		Type:          events.EventTaskAssigned,
		ActorID:       "manager",
		TargetUserIDs: []string{"dev-1", "dev-2"},
		TaskID:        "task-1",
		ProjectID:     "project-1",
		Message:       "assigned to task",
	})
	bus.Close()
	pool.Wait()

	created := recorder.all()
	require.Len(t, created, 2)
	for _, n := range created {
		assert.Equal(t, models.NotificationTaskAssigned, n.Type)
		assert.Equal(t, "assigned to task", n.Message)
		require.NotNil(t, n.TaskID)
		assert.Equal(t, "task-1", *n.TaskID)
		require.NotNil(t, n.ProjectID)
		assert.Equal(t, "project-1", *n.ProjectID)
	}
}

func TestPoolSkipsActor(t *testing.T) {
	recorder := &notificationRecorder{}
	bus := events.NewBus()

	pool := NewPool(recorder, bus, 1)
	pool.Start(context.Background())

	bus.Publish(events.Event{
		Type:          events.EventTaskStatusChanged,
		ActorID:       "dev-1",
		TargetUserIDs: []string{"dev-1", "dev-2"},
		Message:       "status changed",
	})
	bus.Close()
	pool.Wait()

	created := recorder.all()
	require.Len(t, created, 1)
	assert.Equal(t, "dev-2", created[0].UserID)
}

func TestPoolIgnoresUnknownEventType(t *testing.T) {
	recorder := &notificationRecorder{}
	bus := events.NewBus()

	pool := NewPool(recorder, bus, 1)
	pool.Start(context.Background())

	bus.Publish(events.Event{Type: "bogus", TargetUserIDs: []string{"dev-1"}})
	bus.Close()

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not drain")
	}
	assert.Empty(t, recorder.all())
}
