package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kelsos/meili-tasks/internal/models"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func statusIcon(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusEnqueued:
		return "⏸"
	case models.TaskStatusProcessing:
		return "🔄"
	case models.TaskStatusSucceeded:
		return "✅"
	case models.TaskStatusFailed:
		return "❌"
	default:
		return "❓"
	}
}

func statusColor(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusSucceeded:
		return "82"
	case models.TaskStatusFailed:
		return "196"
	case models.TaskStatusProcessing:
		return "39"
	default:
		return "244"
	}
}

// StatusBadge renders a colored status label.
func StatusBadge(status models.TaskStatus) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(statusColor(status)))
	return style.Render(fmt.Sprintf("%s %s", statusIcon(status), status))
}

func indexLabel(task *models.Task) string {
	if task.IndexUID == nil {
		return "-"
	}
	return *task.IndexUID
}

// RenderTask renders a single task with its timings, details and error.
func RenderTask(task *models.Task) string {
	var s strings.Builder

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
		s.WriteString(value)
		s.WriteString("\n")
	}

	row("uid", fmt.Sprintf("%d", task.UID))
	row("status", StatusBadge(task.Status))
	row("type", string(task.Type))
	row("index", indexLabel(task))
	row("enqueued", task.EnqueuedAt.Format(time.RFC3339))
	if task.StartedAt != nil {
		row("started", task.StartedAt.Format(time.RFC3339))
	}
	if task.ProcessedAt != nil {
		row("processed", task.ProcessedAt.Format(time.RFC3339))
	}
	if task.FinishedAt != nil {
		row("finished", task.FinishedAt.Format(time.RFC3339))
	}
	if task.Duration != nil {
		row("duration", *task.Duration)
	}
	if task.CanceledBy != nil {
		row("canceled by", fmt.Sprintf("%d", *task.CanceledBy))
	}
	if details := DescribeDetails(task.Details); details != "" {
		row("details", details)
	}
	if task.Error != nil {
		row("error", errorStyle.Render(fmt.Sprintf("%s: %s", task.Error.Code, task.Error.Message)))
		if task.Error.Link != "" {
			row("", task.Error.Link)
		}
	}

	return s.String()
}

// RenderTaskList renders one line per task followed by the page cursor.
func RenderTaskList(results *models.Results[models.Task]) string {
	var s strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	s.WriteString(header.Render(fmt.Sprintf("%-8s %-14s %-26s %s", "UID", "STATUS", "TYPE", "INDEX")))
	s.WriteString("\n")

	for i := range results.Results {
		task := &results.Results[i]
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(statusColor(task.Status)))
		s.WriteString(fmt.Sprintf("%-8d %s %-26s %s\n",
			task.UID,
			color.Render(fmt.Sprintf("%-14s", task.Status)),
			truncate(string(task.Type), 26),
			indexLabel(task)))
	}

	footer := fmt.Sprintf("%d of %d tasks", len(results.Results), results.Total)
	if results.HasNext() {
		footer += fmt.Sprintf(" | next page: --from %d", *results.Next)
	}
	s.WriteString(labelStyle.Render(footer))
	s.WriteString("\n")

	return s.String()
}

// DescribeDetails summarizes the populated fields of a details variant.
func DescribeDetails(details models.Details) string {
	switch d := details.(type) {
	case nil:
		return ""
	case models.DocumentAdditionDetails:
		return joinParts(intPart("received", d.ReceivedDocuments), intPart("indexed", d.IndexedDocuments))
	case models.DocumentDeletionDetails:
		return joinParts(intPart("provided", d.ProvidedIDs), intPart("deleted", d.DeletedDocuments), strPart("filter", d.OriginalFilter))
	case models.IndexDetails:
		return strPart("primaryKey", d.PrimaryKey)
	case models.IndexDeletionDetails:
		return intPart("deleted", d.DeletedDocuments)
	case models.IndexSwapDetails:
		swaps := make([]string, 0, len(d.Swaps))
		for _, swap := range d.Swaps {
			swaps = append(swaps, strings.Join(swap.Indexes, "<->"))
		}
		return strings.Join(swaps, ", ")
	case models.SettingsDetails:
		return describeSettings(d)
	case models.DumpDetails:
		return strPart("dumpUid", d.DumpUID)
	case models.TaskFilterDetails:
		return joinParts(
			intPart("matched", d.MatchedTasks),
			intPart("canceled", d.CanceledTasks),
			intPart("deleted", d.DeletedTasks),
			strPart("filter", d.OriginalFilter))
	case models.RawDetails:
		return string(d)
	default:
		return fmt.Sprintf("%+v", d)
	}
}

func describeSettings(d models.SettingsDetails) string {
	var changed []string
	add := func(name string, set bool) {
		if set {
			changed = append(changed, name)
		}
	}
	add("rankingRules", d.RankingRules != nil)
	add("searchableAttributes", d.SearchableAttributes != nil)
	add("displayedAttributes", d.DisplayedAttributes != nil)
	add("filterableAttributes", d.FilterableAttributes != nil)
	add("sortableAttributes", d.SortableAttributes != nil)
	add("stopWords", d.StopWords != nil)
	add("synonyms", d.Synonyms != nil)
	add("distinctAttribute", d.DistinctAttribute != nil)
	add("separatorTokens", d.SeparatorTokens != nil)
	add("nonSeparatorTokens", d.NonSeparatorTokens != nil)
	add("dictionary", d.Dictionary != nil)
	add("pagination", d.Pagination != nil)
	add("typoTolerance", d.TypoTolerance != nil)
	if len(changed) == 0 {
		return ""
	}
	return "changed " + strings.Join(changed, ", ")
}

func intPart(name string, v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%s=%d", name, *v)
}

func strPart(name string, v *string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%s=%s", name, *v)
}

func joinParts(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
