package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/taskmon/internal/control"
	"github.com/Dicklesworthstone/taskmon/internal/model"
	"github.com/Dicklesworthstone/taskmon/internal/sampler"
	"github.com/Dicklesworthstone/taskmon/internal/tasks"
)

// Controller performs the actions a user can trigger from the UI.
type Controller interface {
	Kill(ctx context.Context, pid int32) error
	Launch(ctx context.Context, path string) error
}

// Refresher requests an out-of-band poll.
type Refresher interface {
	Refresh()
}

type view int

const (
	viewProcesses view = iota
	viewTasks
	viewPerformance
	viewCount
)

func (v view) String() string {
	switch v {
	case viewProcesses:
		return "Processes"
	case viewTasks:
		return "Tasks"
	case viewPerformance:
		return "Performance"
	}
	return "?"
}

// Messages
type (
	snapshotMsg     struct{ sampler.Msg }
	streamClosedMsg struct{}
	killResultMsg   struct {
		pid  int32
		task bool
		err  error
	}
	launchResultMsg struct {
		path string
		err  error
	}
)

// modal is a one-shot message box dismissed by any key.
type modal struct {
	title string
	body  string
	isErr bool
}

// Model is the single owner of display state. Snapshots from the poller
// arrive as messages and are applied here; nothing else mutates rows.
type Model struct {
	ctx       context.Context
	cancel    context.CancelFunc
	stream    <-chan sampler.Msg
	refresher Refresher
	ctl       Controller
	log       *zap.Logger

	width  int
	height int
	active view

	procSearch textinput.Model
	procTable  table.Model
	procs      []model.Process
	procStamp  string

	taskSearch textinput.Model
	taskTable  table.Model
	taskRows   *tasks.Rows
	taskStamp  string

	perf    model.Perf
	perfErr error

	picker  filepicker.Model
	picking bool

	modal *modal
	keys  keyMap
	help  help.Model
}

// New wires a Model to a snapshot stream. cancel is called on quit.
func New(ctx context.Context, cancel context.CancelFunc, stream <-chan sampler.Msg, r Refresher, ctl Controller, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		ctx:        ctx,
		cancel:     cancel,
		stream:     stream,
		refresher:  r,
		ctl:        ctl,
		log:        log,
		width:      120,
		height:     40,
		procSearch: newSearch("filter processes"),
		procTable:  newTable("Process Name"),
		taskSearch: newSearch("filter tasks"),
		taskTable:  newTable("Task Name"),
		taskRows:   tasks.NewRows(),
		picker:     newPicker(),
		keys:       defaultKeyMap,
		help:       help.New(),
	}
	m.resize()
	return m
}

func newSearch(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	ti.CharLimit = 128
	return ti
}

func newTable(nameTitle string) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "PID", Width: 10},
			{Title: nameTitle, Width: 40},
			{Title: "Memory (MB)", Width: 14},
		}),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles())
	return t
}

func newPicker() filepicker.Model {
	fp := filepicker.New()
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}
	fp.DirAllowed = false
	fp.FileAllowed = true
	return fp
}

func waitForSnapshot(ch <-chan sampler.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return snapshotMsg{msg}
	}
}

func (m *Model) Init() tea.Cmd { return waitForSnapshot(m.stream) }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case snapshotMsg:
		m.applySnapshot(msg.Msg)
		return m, waitForSnapshot(m.stream)
	case streamClosedMsg:
		return m, nil
	case killResultMsg:
		m.modal = killModal(msg)
		m.refresher.Refresh()
		return m, nil
	case launchResultMsg:
		m.modal = launchModal(msg)
		m.refresher.Refresh()
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
		return m.quit()
	}
	if m.modal != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.modal = nil
		}
		return m, nil
	}
	if m.picking {
		return m.updatePicker(msg)
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		if search := m.activeSearch(); search != nil && search.Focused() {
			return m.updateSearch(search, k)
		}
		return m.updateKeys(k)
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

func (m *Model) updateKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Quit):
		return m.quit()
	case key.Matches(k, m.keys.NextTab):
		m.active = (m.active + 1) % viewCount
	case key.Matches(k, m.keys.PrevTab):
		m.active = (m.active + viewCount - 1) % viewCount
	case key.Matches(k, m.keys.Tab1):
		m.active = viewProcesses
	case key.Matches(k, m.keys.Tab2):
		m.active = viewTasks
	case key.Matches(k, m.keys.Tab3):
		m.active = viewPerformance
	case key.Matches(k, m.keys.Refresh):
		m.refresher.Refresh()
	case key.Matches(k, m.keys.Search):
		if search := m.activeSearch(); search != nil {
			return m, search.Focus()
		}
	case key.Matches(k, m.keys.Kill):
		return m, m.killSelected()
	case key.Matches(k, m.keys.Open):
		if m.active == viewTasks {
			m.picking = true
			return m, m.picker.Init()
		}
	default:
		var cmd tea.Cmd
		switch m.active {
		case viewProcesses:
			m.procTable, cmd = m.procTable.Update(k)
		case viewTasks:
			m.taskTable, cmd = m.taskTable.Update(k)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) activeSearch() *textinput.Model {
	switch m.active {
	case viewProcesses:
		return &m.procSearch
	case viewTasks:
		return &m.taskSearch
	}
	return nil
}

// updateSearch feeds a key to the focused search box and redisplays on
// every keystroke.
func (m *Model) updateSearch(search *textinput.Model, k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.Type {
	case tea.KeyEsc, tea.KeyEnter:
		search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	*search, cmd = search.Update(k)
	switch m.active {
	case viewProcesses:
		m.rebuildProcesses()
	case viewTasks:
		m.renderTasks()
	}
	return m, cmd
}

func (m *Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.picking = false
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		return m, m.launch(path)
	}
	return m, cmd
}

func (m *Model) applySnapshot(msg sampler.Msg) {
	switch s := msg.(type) {
	case sampler.ProcessesMsg:
		m.procs = s.Processes
		m.procStamp = s.Timestamp.Format("15:04:05")
		m.rebuildProcesses()
	case sampler.TasksMsg:
		d := m.taskRows.Sync(s.Tasks)
		if !d.Empty() {
			m.log.Debug("tasks reconciled", zap.Int("inserted", len(d.Insert)), zap.Int("removed", len(d.Remove)))
		}
		m.taskStamp = s.Timestamp.Format("15:04:05")
		m.renderTasks()
	case sampler.PerfMsg:
		m.perf = s.Perf
		m.perfErr = s.Err
	}
}

// rebuildProcesses replaces every process row with the filtered set.
func (m *Model) rebuildProcesses() {
	filtered := model.Filter(m.procs, m.procSearch.Value())
	rows := make([]table.Row, 0, len(filtered))
	for _, p := range filtered {
		rows = append(rows, processRow(p.PID, p.Name, p.MemoryMB))
	}
	m.procTable.SetRows(rows)
	clampCursor(&m.procTable)
}

// renderTasks shows the reconciled rows, keeping the cursor on the same pid
// when it is still displayed.
func (m *Model) renderTasks() {
	selected := selectedKey(m.taskTable)
	visible := model.FilterTasks(m.taskRows.Tasks(), m.taskSearch.Value())
	rows := make([]table.Row, 0, len(visible))
	cursor := -1
	for i, t := range visible {
		if t.Key() == selected {
			cursor = i
		}
		rows = append(rows, processRow(t.PID, t.Name, t.MemoryMB))
	}
	m.taskTable.SetRows(rows)
	if cursor >= 0 {
		m.taskTable.SetCursor(cursor)
	}
	clampCursor(&m.taskTable)
}

func processRow(pid int32, name string, mem float64) table.Row {
	return table.Row{model.PIDKey(pid), name, fmt.Sprintf("%.2f", mem)}
}

func selectedKey(t table.Model) string {
	row := t.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

func clampCursor(t *table.Model) {
	n := len(t.Rows())
	switch {
	case n == 0:
	case t.Cursor() < 0:
		t.SetCursor(0)
	case t.Cursor() >= n:
		t.SetCursor(n - 1)
	}
}

func (m *Model) killSelected() tea.Cmd {
	var (
		t    table.Model
		task bool
	)
	switch m.active {
	case viewProcesses:
		t = m.procTable
	case viewTasks:
		t, task = m.taskTable, true
	default:
		return nil
	}
	rowKey := selectedKey(t)
	if rowKey == "" {
		what := "process"
		if task {
			what = "task"
		}
		m.modal = &modal{title: "Error", body: fmt.Sprintf("No %s selected.", what), isErr: true}
		return nil
	}
	pid, err := model.ParsePIDKey(rowKey)
	if err != nil {
		m.modal = &modal{title: "Error", body: err.Error(), isErr: true}
		return nil
	}
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		return killResultMsg{pid: pid, task: task, err: ctl.Kill(ctx, pid)}
	}
}

func (m *Model) launch(path string) tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		return launchResultMsg{path: path, err: ctl.Launch(ctx, path)}
	}
}

func killModal(r killResultMsg) *modal {
	what := "Process"
	if r.task {
		what = "Task"
	}
	switch {
	case r.err == nil:
		return &modal{title: "Success", body: fmt.Sprintf("%s %d terminated.", what, r.pid)}
	case errors.Is(r.err, control.ErrNotFound):
		return &modal{title: "Error", body: what + " no longer exists.", isErr: true}
	case errors.Is(r.err, control.ErrPermissionDenied):
		return &modal{title: "Error", body: "Permission denied.", isErr: true}
	}
	return &modal{title: "Error", body: r.err.Error(), isErr: true}
}

func launchModal(r launchResultMsg) *modal {
	if r.err != nil {
		return &modal{title: "Error", body: r.err.Error(), isErr: true}
	}
	return &modal{title: "Success", body: "Opened: " + r.path}
}

func (m *Model) resize() {
	h := m.height - 9
	if h < 5 {
		h = 5
	}
	m.procTable.SetHeight(h)
	m.taskTable.SetHeight(h)
	m.picker.Height = h
	m.help.Width = m.width
}

// Run starts the Bubble Tea program on the alternate screen.
func Run(m *Model) error {
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
