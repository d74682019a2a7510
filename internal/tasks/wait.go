package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kelsos/meili-tasks/internal/logger"
	"github.com/kelsos/meili-tasks/internal/models"
)

const (
	DefaultTimeout  = 5000 * time.Millisecond
	DefaultInterval = 50 * time.Millisecond
)

// Getter fetches the current state of a single task.
type Getter interface {
	GetTask(ctx context.Context, uid int) (*models.Task, error)
}

// WaitOptions bounds a wait. A nil *WaitOptions means DefaultWaitOptions.
type WaitOptions struct {
	// Timeout is the deadline measured from the first fetch. Zero still
	// allows one fetch.
	Timeout time.Duration
	// Interval is the pause between fetches; values <= 0 use DefaultInterval.
	Interval time.Duration
	// OnPoll, when set, observes every successfully fetched task.
	OnPoll func(task *models.Task)
}

func DefaultWaitOptions() *WaitOptions {
	return &WaitOptions{
		Timeout:  DefaultTimeout,
		Interval: DefaultInterval,
	}
}

func (o *WaitOptions) resolve() WaitOptions {
	if o == nil {
		return *DefaultWaitOptions()
	}
	resolved := *o
	if resolved.Interval <= 0 {
		resolved.Interval = DefaultInterval
	}
	return resolved
}

// WaitForTask fetches uid until it reports succeeded or failed and returns
// that task; a failed task is a successful wait. Fetch errors are returned
// as they are, without retry. When the task is still pending once Timeout
// has elapsed a *TimeoutError is returned. Fetches never overlap.
func WaitForTask(ctx context.Context, getter Getter, uid int, opts *WaitOptions) (*models.Task, error) {
	options := opts.resolve()
	log := logger.With("wait_id", uuid.NewString())
	start := time.Now()

	for attempt := 1; ; attempt++ {
		task, err := getter.GetTask(ctx, uid)
		if err != nil {
			return nil, err
		}
		if options.OnPoll != nil {
			options.OnPoll(task)
		}

		log.Debug().Int("uid", uid).Int("attempt", attempt).Str("status", task.Status.String()).Msg("polled task")

		if task.IsTerminal() {
			return task, nil
		}

		if time.Since(start) >= options.Timeout {
			return nil, &TimeoutError{Timeout: options.Timeout, TaskUID: uid, LastStatus: task.Status}
		}

		timer := time.NewTimer(options.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Await waits for the task identified by ref.
func Await(ctx context.Context, getter Getter, ref models.TaskRef, opts *WaitOptions) (*models.Task, error) {
	return WaitForTask(ctx, getter, ref.TaskIdentifier(), opts)
}

// WaitForTasks runs one independent wait per uid concurrently. Results are
// in the order of uids. The first failure cancels the remaining waits and
// is returned along with whatever tasks had already settled.
func WaitForTasks(ctx context.Context, getter Getter, uids []int, opts *WaitOptions) ([]*models.Task, error) {
	settled := make([]*models.Task, len(uids))

	g, gctx := errgroup.WithContext(ctx)
	for i, uid := range uids {
		i, uid := i, uid
		g.Go(func() error {
			task, err := WaitForTask(gctx, getter, uid, opts)
			if err != nil {
				return err
			}
			settled[i] = task
			return nil
		})
	}

	err := g.Wait()
	return settled, err
}
