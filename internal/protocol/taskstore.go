package protocol

import (
	"sync"
	"time"
)

// TaskRecord is what the store remembers about one task.
type TaskRecord struct {
	ID        string
	SessionID string
	State     string
	UpdatedAt time.Time
}

// TaskStore keeps per-task records in memory so logs and metrics can
// attribute work. It is not authoritative: tasks/get and tasks/cancel
// answer with synthetic states regardless of what is recorded here, and
// nothing survives a restart.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]TaskRecord
}

// NewTaskStore creates an empty in-memory store.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]TaskRecord)}
}

// Record upserts a task record.
func (s *TaskStore) Record(id, sessionID, state string) {
	if s == nil || id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = TaskRecord{
		ID:        id,
		SessionID: sessionID,
		State:     state,
		UpdatedAt: time.Now().UTC(),
	}
}

// Get returns the record for a task id, if any.
func (s *TaskStore) Get(id string) (TaskRecord, bool) {
	if s == nil {
		return TaskRecord{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.tasks[id]
	return record, ok
}

// Len returns the number of recorded tasks.
func (s *TaskStore) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
