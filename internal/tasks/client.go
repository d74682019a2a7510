package tasks

import (
	"context"
	"fmt"

	"github.com/kelsos/meili-tasks/internal/client"
	"github.com/kelsos/meili-tasks/internal/models"
)

// Client queries the tasks routes. It performs exactly one request per call:
// no caching and no retry.
type Client struct {
	transport client.Transport
}

// NewClient creates a task client on top of the given transport
func NewClient(transport client.Transport) *Client {
	return &Client{
		transport: transport,
	}
}

// GetTask fetches GET /tasks/{uid}.
func (c *Client) GetTask(ctx context.Context, uid int) (*models.Task, error) {
	endpoint := fmt.Sprintf("/tasks/%d", uid)
	return client.Fetch[models.Task](ctx, c.transport, endpoint, nil)
}

// ListTasks fetches GET /tasks filtered by query, which may be nil.
func (c *Client) ListTasks(ctx context.Context, query *models.TasksQuery) (*models.Results[models.Task], error) {
	return client.Fetch[models.Results[models.Task]](ctx, c.transport, "/tasks", query.ToQuery())
}

// ListIndexTasks lists the tasks of one index. indexUID is appended to the
// index filters of a copy of query; query itself is left untouched.
func (c *Client) ListIndexTasks(ctx context.Context, indexUID string, query *models.TasksQuery) (*models.Results[models.Task], error) {
	return c.ListTasks(ctx, query.WithIndex(indexUID))
}

// WaitForTask polls uid until it settles. See WaitForTask.
func (c *Client) WaitForTask(ctx context.Context, uid int, opts *WaitOptions) (*models.Task, error) {
	return WaitForTask(ctx, c, uid, opts)
}

// Await polls the task identified by ref until it settles.
func (c *Client) Await(ctx context.Context, ref models.TaskRef, opts *WaitOptions) (*models.Task, error) {
	return Await(ctx, c, ref, opts)
}

// WaitForTasks polls every uid independently. See WaitForTasks.
func (c *Client) WaitForTasks(ctx context.Context, uids []int, opts *WaitOptions) ([]*models.Task, error) {
	return WaitForTasks(ctx, c, uids, opts)
}
