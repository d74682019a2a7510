package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrDecodeOnly is returned when a server-reported value is encoded.
// Tasks are only ever received from the service, never sent to it.
var ErrDecodeOnly = errors.New("value is decode-only")

// TaskStatus is the lifecycle state reported by the service.
//
// Lifecycle: enqueued -> processing -> succeeded | failed
type TaskStatus string

const (
	TaskStatusEnqueued   TaskStatus = "enqueued"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusSucceeded  TaskStatus = "succeeded"
	TaskStatusFailed     TaskStatus = "failed"
)

// ParseTaskStatus maps a wire literal onto a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	switch status := TaskStatus(raw); status {
	case TaskStatusEnqueued, TaskStatusProcessing, TaskStatusSucceeded, TaskStatusFailed:
		return status, nil
	default:
		return "", &StatusDecodeError{Value: raw}
	}
}

// IsTerminal reports whether no further transitions can occur.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusSucceeded || s == TaskStatusFailed
}

func (s TaskStatus) String() string {
	return string(s)
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("task status must be a string: %w", err)
	}
	status, err := ParseTaskStatus(raw)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return nil, ErrDecodeOnly
}

// TaskType names the kind of operation a task performs.
type TaskType string

const (
	TaskTypeDocumentAdditionOrUpdate TaskType = "documentAdditionOrUpdate"
	TaskTypeDocumentDeletion         TaskType = "documentDeletion"
	TaskTypeIndexCreation            TaskType = "indexCreation"
	TaskTypeIndexUpdate              TaskType = "indexUpdate"
	TaskTypeIndexDeletion            TaskType = "indexDeletion"
	TaskTypeIndexSwap                TaskType = "indexSwap"
	TaskTypeSettingsUpdate           TaskType = "settingsUpdate"
	TaskTypeDumpCreation             TaskType = "dumpCreation"
	TaskTypeSnapshotCreation         TaskType = "snapshotCreation"
	TaskTypeTaskCancelation          TaskType = "taskCancelation"
	TaskTypeTaskDeletion             TaskType = "taskDeletion"
)

// TaskRef is anything that identifies a task on the server.
type TaskRef interface {
	TaskIdentifier() int
}

// Task is a server-side asynchronous operation as reported by GET /tasks.
// A Task is immutable once decoded; every poll produces a fresh value.
type Task struct {
	UID         int
	IndexUID    *string
	Status      TaskStatus
	Type        TaskType
	Details     Details
	Duration    *string
	EnqueuedAt  time.Time
	StartedAt   *time.Time
	ProcessedAt *time.Time
	FinishedAt  *time.Time
	CanceledBy  *int
	Error       *ServiceError
}

type taskWire struct {
	UID         *int            `json:"uid"`
	IndexUID    *string         `json:"indexUid"`
	Status      *TaskStatus     `json:"status"`
	Type        *TaskType       `json:"type"`
	Details     json.RawMessage `json:"details"`
	Duration    *string         `json:"duration"`
	EnqueuedAt  *time.Time      `json:"enqueuedAt"`
	StartedAt   *time.Time      `json:"startedAt"`
	ProcessedAt *time.Time      `json:"processedAt"`
	FinishedAt  *time.Time      `json:"finishedAt"`
	CanceledBy  *int            `json:"canceledBy"`
	Error       *ServiceError   `json:"error"`
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var wire taskWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch {
	case wire.UID == nil:
		return errors.New("task: missing uid")
	case wire.Status == nil:
		return errors.New("task: missing status")
	case wire.Type == nil:
		return errors.New("task: missing type")
	case wire.EnqueuedAt == nil:
		return errors.New("task: missing enqueuedAt")
	}

	if *wire.Status == TaskStatusFailed && wire.Error == nil {
		return fmt.Errorf("task %d: failed without an error payload", *wire.UID)
	}
	if *wire.Status != TaskStatusFailed && wire.Error != nil {
		return fmt.Errorf("task %d: error payload on a %s task", *wire.UID, *wire.Status)
	}

	*t = Task{
		UID:         *wire.UID,
		IndexUID:    wire.IndexUID,
		Status:      *wire.Status,
		Type:        *wire.Type,
		Details:     decodeDetails(*wire.Type, wire.Details),
		Duration:    wire.Duration,
		EnqueuedAt:  *wire.EnqueuedAt,
		StartedAt:   wire.StartedAt,
		ProcessedAt: wire.ProcessedAt,
		FinishedAt:  wire.FinishedAt,
		CanceledBy:  wire.CanceledBy,
		Error:       wire.Error,
	}
	return nil
}

func (t *Task) TaskIdentifier() int {
	return t.UID
}

// IsTerminal reports whether the task has reached succeeded or failed.
func (t *Task) IsTerminal() bool {
	return t.Status.IsTerminal()
}

func (t *Task) Succeeded() bool {
	return t.Status == TaskStatusSucceeded
}

func (t *Task) Failed() bool {
	return t.Status == TaskStatusFailed
}

// TaskInfo is the summarized task returned by a mutating call.
type TaskInfo struct {
	TaskUID    int        `json:"taskUid"`
	IndexUID   *string    `json:"indexUid,omitempty"`
	Status     TaskStatus `json:"status"`
	Type       TaskType   `json:"type"`
	EnqueuedAt time.Time  `json:"enqueuedAt"`
}

func (i *TaskInfo) TaskIdentifier() int {
	return i.TaskUID
}
