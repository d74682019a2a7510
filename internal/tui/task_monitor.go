package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/meili-tasks/internal/logger"
	"github.com/kelsos/meili-tasks/internal/models"
	"github.com/kelsos/meili-tasks/internal/tasks"
)

// TaskMonitor waits on several tasks and renders their progress live.
type TaskMonitor struct {
	getter  tasks.Getter
	uids    []int
	opts    tasks.WaitOptions
	program *tea.Program
}

func NewTaskMonitor(getter tasks.Getter, uids []int, opts *tasks.WaitOptions) *TaskMonitor {
	resolved := tasks.DefaultWaitOptions()
	if opts != nil {
		resolved = opts
	}
	return &TaskMonitor{
		getter: getter,
		uids:   uids,
		opts:   *resolved,
	}
}

func (tm *TaskMonitor) Start(programOpts ...tea.ProgramOption) {
	if len(programOpts) == 0 {
		programOpts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	tm.program = tea.NewProgram(NewModel(), programOpts...)
}

// Stop asks a started program to quit; pending waits are cancelled when Run
// returns.
func (tm *TaskMonitor) Stop() {
	if tm.program != nil {
		tm.program.Quit()
	}
}

func (tm *TaskMonitor) send(msg tea.Msg) {
	if tm.program != nil {
		tm.program.Send(msg)
	}
}

// waitAll runs one independent wait per uid. Each outcome is reported to the
// program as it happens; errors do not stop the other waits.
func (tm *TaskMonitor) waitAll(ctx context.Context) {
	tm.send(TasksLoaded{UIDs: tm.uids})
	tm.send(LogMessage{Message: fmt.Sprintf("Waiting for %d tasks", len(tm.uids))})

	opts := tm.opts
	opts.OnPoll = func(task *models.Task) {
		tm.send(TaskPolled{Task: task})
	}

	var wg sync.WaitGroup
	for _, uid := range tm.uids {
		uid := uid
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := tasks.WaitForTask(ctx, tm.getter, uid, &opts)
			if err != nil {
				logger.Error("Waiting for task %d failed: %v", uid, err)
			} else {
				logger.Info("Task %d settled as %s", uid, task.Status)
			}
			tm.send(TaskSettled{UID: uid, Task: task, Err: err})
		}()
	}
	wg.Wait()

	tm.send(AllSettled{})
}

// Run blocks until every task settled or the user quit, and returns the
// final per-task state.
func (tm *TaskMonitor) Run(ctx context.Context) ([]TaskState, error) {
	if tm.program == nil {
		tm.Start()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go tm.waitAll(ctx)

	final, err := tm.program.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run TUI: %w", err)
	}

	model, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected TUI model %T", final)
	}
	return model.States(), nil
}
