package tasks

import (
	"fmt"
	"time"

	"github.com/kelsos/meili-tasks/internal/models"
)

// TimeoutError is returned when a task is still enqueued or processing
// after the wait deadline.
type TimeoutError struct {
	Timeout    time.Duration
	TaskUID    int
	LastStatus models.TaskStatus
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting for task %d (last status: %s)", e.Timeout, e.TaskUID, e.LastStatus)
}
