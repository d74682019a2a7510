package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestToQueryOmitsUnsetFields(t *testing.T) {
	var q *TasksQuery
	if len(q.ToQuery()) != 0 {
		t.Fatal("nil query should encode to nothing")
	}
	if len((&TasksQuery{}).ToQuery()) != 0 {
		t.Fatal("empty query should encode to nothing")
	}
}

func TestToQueryEncodesFilters(t *testing.T) {
	limit, from := 20, 100
	after := time.Date(2022, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	q := &TasksQuery{
		UIDs:            []int{1, 2},
		IndexUIDs:       []string{"movies", "books"},
		Statuses:        []TaskStatus{TaskStatusEnqueued, TaskStatusFailed},
		Types:           []TaskType{TaskTypeDumpCreation},
		Limit:           &limit,
		From:            &from,
		AfterEnqueuedAt: &after,
	}

	values := q.ToQuery()
	expect := map[string]string{
		"uids":            "1,2",
		"indexUids":       "movies,books",
		"statuses":        "enqueued,failed",
		"types":           "dumpCreation",
		"limit":           "20",
		"from":            "100",
		"afterEnqueuedAt": "2022-06-01T10:00:00Z",
	}
	for key, want := range expect {
		if got := values.Get(key); got != want {
			t.Fatalf("%s: expected %q, got %q", key, want, got)
		}
	}
	if len(values) != len(expect) {
		t.Fatalf("unexpected extra parameters: %v", values)
	}
}

func TestWithIndexDoesNotMutateCaller(t *testing.T) {
	original := &TasksQuery{IndexUIDs: make([]string, 1, 4)}
	original.IndexUIDs[0] = "books"

	scoped := original.WithIndex("movies")
	if len(original.IndexUIDs) != 1 {
		t.Fatalf("caller filter mutated: %v", original.IndexUIDs)
	}
	if got := scoped.ToQuery().Get("indexUids"); got != "books,movies" {
		t.Fatalf("unexpected scoped index filter %q", got)
	}

	// reuse of the same filter must not see the first scoping
	other := original.WithIndex("songs")
	if got := other.ToQuery().Get("indexUids"); got != "books,songs" {
		t.Fatalf("aliasing between scoped copies: %q", got)
	}
	if scoped.IndexUIDs[1] != "movies" {
		t.Fatal("first scoped copy was overwritten")
	}
}

func TestWithIndexOnNilQuery(t *testing.T) {
	var q *TasksQuery
	scoped := q.WithIndex("movies")
	if len(scoped.IndexUIDs) != 1 || scoped.IndexUIDs[0] != "movies" {
		t.Fatalf("unexpected index filter %v", scoped.IndexUIDs)
	}
}

func TestWithIndexKeepsDuplicates(t *testing.T) {
	q := &TasksQuery{IndexUIDs: []string{"movies"}}
	if got := q.WithIndex("movies").ToQuery().Get("indexUids"); got != "movies,movies" {
		t.Fatalf("expected duplicate index, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

func TestResultsPreserveOrder(t *testing.T) {
	body := `{
		"results": [
			{"uid": 3, "status": "succeeded", "type": "indexCreation", "enqueuedAt": "2022-06-01T10:00:00Z"},
			{"uid": 2, "status": "processing", "type": "settingsUpdate", "enqueuedAt": "2022-06-01T10:00:00Z"},
			{"uid": 1, "status": "enqueued", "type": "dumpCreation", "enqueuedAt": "2022-06-01T10:00:00Z"}
		],
		"total": 3,
		"limit": 20,
		"from": 3,
		"next": null
	}`

	var results Results[Task]
	if err := json.Unmarshal([]byte(body), &results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results.Results) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(results.Results))
	}
	for i, uid := range []int{3, 2, 1} {
		if results.Results[i].UID != uid {
			t.Fatalf("position %d: expected uid %d, got %d", i, uid, results.Results[i].UID)
		}
	}
	if results.Total != 3 || results.Limit != 20 || *results.From != 3 || results.HasNext() {
		t.Fatalf("unexpected pagination %+v", results)
	}
}

func TestResultsRequireResultsArray(t *testing.T) {
	var results Results[Task]
	if err := json.Unmarshal([]byte(`{"message": "x", "code": "y"}`), &results); err == nil {
		t.Fatal("expected failure without results array")
	}
}

func TestResultsPropagateElementFailure(t *testing.T) {
	body := `{"results": [{"uid": 1, "status": "paused", "type": "indexCreation", "enqueuedAt": "2022-06-01T10:00:00Z"}], "limit": 20}`
	var results Results[Task]
	if err := json.Unmarshal([]byte(body), &results); err == nil {
		t.Fatal("expected failure for unknown element status")
	}
}
