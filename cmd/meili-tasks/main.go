package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kelsos/meili-tasks/internal/client"
	"github.com/kelsos/meili-tasks/internal/config"
	"github.com/kelsos/meili-tasks/internal/logger"
	"github.com/kelsos/meili-tasks/internal/models"
	"github.com/kelsos/meili-tasks/internal/tasks"
	"github.com/kelsos/meili-tasks/internal/tui"
)

// app bundles what every subcommand needs once flags are parsed.
type app struct {
	cfg       *config.Config
	apiClient *client.APIClient
	tasks     *tasks.Client
}

func (a *app) waitOptions() *tasks.WaitOptions {
	return &tasks.WaitOptions{
		Timeout:  a.cfg.WaitTimeout,
		Interval: a.cfg.WaitInterval,
	}
}

func parseUIDs(args []string) ([]int, error) {
	uids := make([]int, 0, len(args))
	for _, arg := range args {
		uid, err := strconv.Atoi(arg)
		if err != nil || uid < 0 {
			return nil, fmt.Errorf("invalid task uid %q", arg)
		}
		uids = append(uids, uid)
	}
	return uids, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	config.LoadEnvironment()
	logger.Init()

	cfg := config.NewConfig()
	cfg.LoadFromEnvironment()

	var (
		host     string
		timeout  int
		interval int
		debug    bool
	)

	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "meili-tasks",
		Short: "Inspect and wait on Meilisearch tasks",
		Long:  `meili-tasks queries the task queue of a Meilisearch instance and waits for enqueued tasks to settle.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				logger.EnableDebug()
			}

			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Host = host
			}
			if flags.Changed("timeout") {
				cfg.WaitTimeout = time.Duration(timeout) * time.Millisecond
			}
			if flags.Changed("interval") {
				cfg.WaitInterval = time.Duration(interval) * time.Millisecond
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			a.apiClient = client.NewAPIClient(cfg)
			a.tasks = tasks.NewClient(a.apiClient)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&host, "host", "H", cfg.Host, "Meilisearch host (env MEILI_HOST)")
	rootCmd.PersistentFlags().IntVarP(&timeout, "timeout", "t", int(cfg.WaitTimeout/time.Millisecond), "Wait timeout in milliseconds (env MEILI_WAIT_TIMEOUT)")
	rootCmd.PersistentFlags().IntVarP(&interval, "interval", "i", int(cfg.WaitInterval/time.Millisecond), "Poll interval in milliseconds (env MEILI_WAIT_INTERVAL)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newGetCmd(a),
		newListCmd(a),
		newWaitCmd(a),
		newWatchCmd(a),
		newHealthCmd(a),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Failed to execute command: %v", err)
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <uid>",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			uids, err := parseUIDs(args)
			if err != nil {
				logger.Fatal("%v", err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			task, err := a.tasks.GetTask(ctx, uids[0])
			if err != nil {
				logger.Fatal("Failed to get task %d: %v", uids[0], err)
			}
			fmt.Print(tui.RenderTask(task))
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		indexes    []string
		statuses   []string
		types      []string
		uids       []int
		canceledBy []int
		limit      int
		from       int
		scopeIndex string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			query := &models.TasksQuery{
				UIDs:       uids,
				IndexUIDs:  indexes,
				CanceledBy: canceledBy,
			}
			for _, raw := range statuses {
				status, err := models.ParseTaskStatus(raw)
				if err != nil {
					logger.Fatal("%v", err)
				}
				query.Statuses = append(query.Statuses, status)
			}
			for _, raw := range types {
				query.Types = append(query.Types, models.TaskType(raw))
			}
			if cmd.Flags().Changed("limit") {
				query.Limit = &limit
			}
			if cmd.Flags().Changed("from") {
				query.From = &from
			}

			ctx, cancel := signalContext()
			defer cancel()

			var (
				results *models.Results[models.Task]
				err     error
			)
			if scopeIndex != "" {
				results, err = a.tasks.ListIndexTasks(ctx, scopeIndex, query)
			} else {
				results, err = a.tasks.ListTasks(ctx, query)
			}
			if err != nil {
				logger.Fatal("Failed to list tasks: %v", err)
			}
			fmt.Print(tui.RenderTaskList(results))
		},
	}

	cmd.Flags().StringSliceVar(&indexes, "index", nil, "Filter by index uid (repeatable)")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status: enqueued, processing, succeeded, failed")
	cmd.Flags().StringSliceVar(&types, "type", nil, "Filter by task type")
	cmd.Flags().IntSliceVar(&uids, "uid", nil, "Filter by task uid")
	cmd.Flags().IntSliceVar(&canceledBy, "canceled-by", nil, "Filter by the uid of the canceling task")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of tasks to return")
	cmd.Flags().IntVar(&from, "from", 0, "Uid of the first task to return")
	cmd.Flags().StringVar(&scopeIndex, "scope-index", "", "List the tasks of a single index")

	return cmd
}

func newWaitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wait <uid>...",
		Short: "Wait for tasks to succeed or fail",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			uids, err := parseUIDs(args)
			if err != nil {
				logger.Fatal("%v", err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			logger.Info("Waiting for %d tasks (timeout %v, interval %v)", len(uids), a.cfg.WaitTimeout, a.cfg.WaitInterval)
			settled, waitErr := a.tasks.WaitForTasks(ctx, uids, a.waitOptions())

			failed := false
			for i, task := range settled {
				if task == nil {
					continue
				}
				fmt.Print(tui.RenderTask(task))
				if i < len(settled)-1 {
					fmt.Println()
				}
				if task.Failed() {
					failed = true
				}
			}

			if waitErr != nil {
				logger.Fatal("Failed to wait for tasks: %v", waitErr)
			}
			if failed {
				os.Exit(1)
			}
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <uid>...",
		Short: "Wait for tasks with a live terminal view",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			uids, err := parseUIDs(args)
			if err != nil {
				logger.Fatal("%v", err)
			}

			logPath, err := logger.InitFileOnly()
			if err != nil {
				logger.Fatal("Failed to initialize file logging: %v", err)
			}
			defer logger.Close()

			ctx, cancel := signalContext()
			defer cancel()

			monitor := tui.NewTaskMonitor(a.tasks, uids, a.waitOptions())
			monitor.Start()
			go func() {
				<-ctx.Done()
				monitor.Stop()
			}()

			states, err := monitor.Run(ctx)
			if err != nil {
				logger.Init()
				logger.Fatal("Monitor failed: %v", err)
			}

			exitCode := 0
			for _, state := range states {
				switch {
				case state.Err != nil:
					fmt.Printf("task %d: %v\n", state.UID, state.Err)
					exitCode = 1
				case state.Task != nil:
					fmt.Printf("task %d: %s\n", state.UID, tui.StatusBadge(state.Task.Status))
					if state.Task.Failed() {
						exitCode = 1
					}
				default:
					fmt.Printf("task %d: not settled\n", state.UID)
					exitCode = 1
				}
			}
			fmt.Printf("logs: %s\n", logPath)

			if exitCode != 0 {
				logger.Close()
				os.Exit(exitCode)
			}
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	var waitReady bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the Meilisearch instance is reachable",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signalContext()
			defer cancel()

			if waitReady {
				if !a.apiClient.WaitForAPIReady(ctx, time.Second) {
					logger.Fatal("API at %s did not become ready", a.cfg.BaseURL())
				}
				logger.Info("API at %s is ready", a.cfg.BaseURL())
				return
			}

			if err := a.apiClient.Ping(ctx); err != nil {
				logger.Fatal("Health check failed: %v", err)
			}
			logger.Info("API at %s is available", a.cfg.BaseURL())
		},
	}
	cmd.Flags().BoolVar(&waitReady, "wait", false, "Retry until the API is ready (env MEILI_API_TIMEOUT attempts)")

	return cmd
}
