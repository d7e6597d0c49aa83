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

type dueTaskStore struct {
	database.Store
	tasks     []*models.Task
	assignees map[string][]*models.User
}

func (s *dueTaskStore) TasksDueWithin(ctx context.Context, now time.Time, days int) ([]*models.Task, error) {
	return s.tasks, nil
}

func (s *dueTaskStore) GetTaskAssignees(ctx context.Context, taskID string) ([]*models.User, error) {
	return s.assignees[taskID], nil
}

type publishRecorder struct {
	mu        sync.Mutex
	published []events.Event
}

func (p *publishRecorder) Publish(event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
}

func (p *publishRecorder) Events() <-chan events.Event { return nil }
func (p *publishRecorder) Close()                      {}

func (p *publishRecorder) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.published...)
}

func dueTask(id, creator string, daysFromNow int) *models.Task {
	due := time.Now().AddDate(0, 0, daysFromNow)
	return &models.Task{
		ID:        id,
		ProjectID: "project-1",
		CreatedBy: creator,
		Title:     "ship it",
		Status:    models.TaskStatusTodo,
		DueDate:   &due,
	}
}

func TestSweepNotifiesCreatorAndAssignees(t *testing.T) {
	store := &dueTaskStore{
		tasks: []*models.Task{dueTask("task-1", "creator", 1)},
		assignees: map[string][]*models.User{
			"task-1": {{ID: "dev-1"}, {ID: "dev-2"}},
		},
	}
	bus := &publishRecorder{}

	scheduler := NewScheduler(store, bus, 0)
	scheduler.Sweep(context.Background())

	published := bus.all()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTaskDueSoon, published[0].Type)
	assert.Equal(t, "task-1", published[0].TaskID)
	assert.ElementsMatch(t, []string{"creator", "dev-1", "dev-2"}, published[0].TargetUserIDs)
	assert.Contains(t, published[0].Message, "ship it")
}

func TestSweepRemindsOnlyOnce(t *testing.T) {
	store := &dueTaskStore{
		tasks:     []*models.Task{dueTask("task-1", "creator", 2)},
		assignees: map[string][]*models.User{},
	}
	bus := &publishRecorder{}

	scheduler := NewScheduler(store, bus, 0)
	scheduler.Sweep(context.Background())
	scheduler.Sweep(context.Background())

	assert.Len(t, bus.all(), 1)
}

func TestSweepDeduplicatesCreatorAssignee(t *testing.T) {
	store := &dueTaskStore{
		tasks: []*models.Task{dueTask("task-1", "creator", 1)},
		assignees: map[string][]*models.User{
			"task-1": {{ID: "creator"}},
		},
	}
	bus := &publishRecorder{}

	scheduler := NewScheduler(store, bus, 0)
	scheduler.Sweep(context.Background())

	published := bus.all()
	require.Len(t, published, 1)
	assert.Equal(t, []string{"creator"}, published[0].TargetUserIDs)
}
