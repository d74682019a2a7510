package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kelsos/meili-tasks/internal/models"
)

// TaskState is what the monitor knows about one waited task.
type TaskState struct {
	UID       int
	Task      *models.Task
	Polls     int
	Err       error
	Settled   bool
	StartTime time.Time
	EndTime   time.Time
}

type Model struct {
	uids       []int
	states     map[int]*TaskState
	logs       []string
	spinner    spinner.Model
	progress   progress.Model
	width      int
	height     int
	quit       bool
	done       bool
	succeeded  int
	failed     int
	errorCount int
}

// TasksLoaded registers the uids being waited on.
type TasksLoaded struct {
	UIDs []int
}

// TaskPolled carries the task returned by one fetch.
type TaskPolled struct {
	Task *models.Task
}

// TaskSettled ends the wait for one uid, with either a terminal task or
// the error that stopped the wait.
type TaskSettled struct {
	UID  int
	Task *models.Task
	Err  error
}

type LogMessage struct {
	Message string
}

// AllSettled is sent once every wait has returned.
type AllSettled struct{}

func NewModel() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	pr := progress.New(progress.WithDefaultGradient())

	return Model{
		uids:     []int{},
		states:   make(map[int]*TaskState),
		logs:     []string{},
		spinner:  sp,
		progress: pr,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.handleKeyMsg(msg) {
			m.quit = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m = m.handleWindowSizeMsg(msg)

	case TasksLoaded:
		m = m.handleTasksLoaded(msg)

	case TaskPolled:
		m = m.handleTaskPolled(msg)

	case TaskSettled:
		m = m.handleTaskSettled(msg)

	case LogMessage:
		m = m.handleLogMessage(msg)

	case AllSettled:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		if progressModel, ok := progressModel.(progress.Model); ok {
			m.progress = progressModel
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	}
	return false
}

func (m Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.progress.Width = max(msg.Width-40, 10)
	return m
}

func (m Model) handleTasksLoaded(msg TasksLoaded) Model {
	now := time.Now()
	for _, uid := range msg.UIDs {
		if _, exists := m.states[uid]; exists {
			continue
		}
		m.uids = append(m.uids, uid)
		m.states[uid] = &TaskState{UID: uid, StartTime: now}
	}
	return m
}

func (m Model) handleTaskPolled(msg TaskPolled) Model {
	if msg.Task == nil {
		return m
	}
	state, exists := m.states[msg.Task.UID]
	if !exists || state.Settled {
		return m
	}
	previous := state.Task
	state.Task = msg.Task
	state.Polls++
	if previous == nil || previous.Status != msg.Task.Status {
		m = m.handleLogMessage(LogMessage{Message: fmt.Sprintf("task %d is %s", msg.Task.UID, msg.Task.Status)})
	}
	return m
}

func (m Model) handleTaskSettled(msg TaskSettled) Model {
	state, exists := m.states[msg.UID]
	if !exists || state.Settled {
		return m
	}
	state.Settled = true
	state.EndTime = time.Now()

	switch {
	case msg.Err != nil:
		state.Err = msg.Err
		m.errorCount++
		m = m.handleLogMessage(LogMessage{Message: fmt.Sprintf("❌ task %d: %v", msg.UID, msg.Err)})
	case msg.Task != nil:
		state.Task = msg.Task
		if msg.Task.Failed() {
			m.failed++
		} else {
			m.succeeded++
		}
	}
	return m
}

func (m Model) handleLogMessage(msg LogMessage) Model {
	m.logs = append(m.logs, fmt.Sprintf("[%s] %s",
		time.Now().Format("15:04:05"), msg.Message))
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
	return m
}

func (m Model) settledCount() int {
	return m.succeeded + m.failed + m.errorCount
}

// States returns the per-task state in the order the uids were loaded.
func (m Model) States() []TaskState {
	states := make([]TaskState, 0, len(m.uids))
	for _, uid := range m.uids {
		states = append(states, *m.states[uid])
	}
	return states
}

func (m Model) View() string {
	if m.quit {
		return "Shutting down...\n"
	}

	var s strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginBottom(1)

	s.WriteString(headerStyle.Render("🔎 Meilisearch Task Monitor"))
	s.WriteString("\n\n")

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	pending := len(m.uids) - m.settledCount()
	summary := fmt.Sprintf("Tasks: %d | ✅ Succeeded: %d | ❌ Failed: %d | ⚠ Errors: %d | ⏳ Pending: %d",
		len(m.uids), m.succeeded, m.failed, m.errorCount, pending)
	s.WriteString(summaryStyle.Render(summary))
	s.WriteString("\n")

	if len(m.uids) > 0 {
		s.WriteString(m.progress.ViewAs(float64(m.settledCount()) / float64(len(m.uids))))
	}
	s.WriteString("\n\n")

	taskSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1).
		Width(max(m.width-2, 20))

	var taskLines strings.Builder
	taskLines.WriteString("📊 Task Status\n")
	taskLines.WriteString(strings.Repeat("─", 60) + "\n")

	for _, uid := range m.uids {
		taskLines.WriteString(m.renderStateLine(m.states[uid]) + "\n")
	}

	s.WriteString(taskSectionStyle.Render(taskLines.String()))
	s.WriteString("\n\n")

	logSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(max(m.width-2, 20)).
		Height(8)

	var logSection strings.Builder
	logSection.WriteString("📝 Recent Activity\n")
	for _, log := range m.logs {
		logSection.WriteString(log + "\n")
	}

	s.WriteString(logSectionStyle.Render(logSection.String()))
	s.WriteString("\n\n")

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	s.WriteString(footerStyle.Render("Press 'q' to quit | Logs: logs/meili-tasks_*.log"))

	return s.String()
}

func (m Model) renderStateLine(state *TaskState) string {
	if state.Err != nil {
		return errorStyle.Render(fmt.Sprintf("⚠ %-8d %v", state.UID, state.Err))
	}
	if state.Task == nil {
		return fmt.Sprintf("%s %-8d waiting for first poll", m.spinner.View(), state.UID)
	}

	task := state.Task
	indicator := m.spinner.View()
	if state.Settled {
		indicator = " "
	}
	line := fmt.Sprintf("%s %-8d %s %-26s %-15s polls: %d",
		indicator,
		task.UID,
		StatusBadge(task.Status),
		truncate(string(task.Type), 26),
		truncate(indexLabel(task), 15),
		state.Polls)

	if task.Error != nil {
		line += " " + errorStyle.Render(task.Error.Message)
	} else if state.Settled {
		line += " " + labelStyle.Render(fmt.Sprintf("in %v", state.EndTime.Sub(state.StartTime).Round(time.Millisecond)))
	}
	return line
}
