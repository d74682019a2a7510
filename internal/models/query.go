package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TasksQuery filters GET /tasks. Unset fields are left out of the query.
// A TasksQuery is treated as an immutable input; helpers return copies.
type TasksQuery struct {
	UIDs       []int
	IndexUIDs  []string
	Statuses   []TaskStatus
	Types      []TaskType
	CanceledBy []int

	Limit *int
	From  *int

	BeforeEnqueuedAt *time.Time
	AfterEnqueuedAt  *time.Time
	BeforeStartedAt  *time.Time
	AfterStartedAt   *time.Time
	BeforeFinishedAt *time.Time
	AfterFinishedAt  *time.Time
}

// Clone returns a deep copy of the query. A nil query clones to an empty one.
func (q *TasksQuery) Clone() *TasksQuery {
	if q == nil {
		return &TasksQuery{}
	}
	clone := *q
	clone.UIDs = append([]int(nil), q.UIDs...)
	clone.IndexUIDs = append([]string(nil), q.IndexUIDs...)
	clone.Statuses = append([]TaskStatus(nil), q.Statuses...)
	clone.Types = append([]TaskType(nil), q.Types...)
	clone.CanceledBy = append([]int(nil), q.CanceledBy...)
	return &clone
}

// WithIndex returns a copy scoped to indexUID. The index is appended to any
// existing index filters without deduplication.
func (q *TasksQuery) WithIndex(indexUID string) *TasksQuery {
	scoped := q.Clone()
	scoped.IndexUIDs = append(scoped.IndexUIDs, indexUID)
	return scoped
}

// ToQuery encodes the filter with the parameter names of the tasks route.
func (q *TasksQuery) ToQuery() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setList(values, "uids", q.UIDs, strconv.Itoa)
	setList(values, "indexUids", q.IndexUIDs, func(s string) string { return s })
	setList(values, "statuses", q.Statuses, TaskStatus.String)
	setList(values, "types", q.Types, func(t TaskType) string { return string(t) })
	setList(values, "canceledBy", q.CanceledBy, strconv.Itoa)

	if q.Limit != nil {
		values.Set("limit", strconv.Itoa(*q.Limit))
	}
	if q.From != nil {
		values.Set("from", strconv.Itoa(*q.From))
	}

	setTime(values, "beforeEnqueuedAt", q.BeforeEnqueuedAt)
	setTime(values, "afterEnqueuedAt", q.AfterEnqueuedAt)
	setTime(values, "beforeStartedAt", q.BeforeStartedAt)
	setTime(values, "afterStartedAt", q.AfterStartedAt)
	setTime(values, "beforeFinishedAt", q.BeforeFinishedAt)
	setTime(values, "afterFinishedAt", q.AfterFinishedAt)

	return values
}

func setList[T any](values url.Values, key string, items []T, format func(T) string) {
	if len(items) == 0 {
		return
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = format(item)
	}
	values.Set(key, strings.Join(parts, ","))
}

func setTime(values url.Values, key string, t *time.Time) {
	if t != nil {
		values.Set(key, t.UTC().Format(time.RFC3339))
	}
}
