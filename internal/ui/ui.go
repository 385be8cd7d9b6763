package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dontell/internal/category"
	"dontell/internal/config"
	"dontell/internal/notify"
	"dontell/internal/schedule"
	"dontell/internal/storage"
	"dontell/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	highStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mediumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	soonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// editState tracks the schema-driven field editor: which task and which
// field of its schema the input currently targets.
type editState struct {
	taskID string
	index  int
}

type Model struct {
	list       *task.List
	store      *storage.Store
	book       *notify.Book
	cfg        config.Config
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	sortBy     string
	filter     string
	confirmDel bool
	pendingDel *task.Task
	edit       *editState
	showRem    bool
	now        func() time.Time
}

func Run(store *storage.Store, cfg config.Config) error {
	book := notify.NewBook()
	planner := schedule.NewPlanner(book)
	list := task.NewList(planner)

	stored, err := store.LoadTasks()
	if err != nil {
		return err
	}
	list.Load(stored)
	// Restore the live reminder set for recurring tasks.
	now := time.Now()
	for _, t := range stored {
		planner.Reschedule(t, now)
	}

	ti := textinput.New()
	ti.Placeholder = "New task (keywords pick the category)"
	ti.CharLimit = 256
	ti.Width = 48

	m := Model{
		list:   list,
		store:  store,
		book:   book,
		cfg:    cfg,
		input:  ti,
		mode:   modeList,
		sortBy: cfg.DefaultSort,
		status: "Press 'a' to add a task.",
		now:    time.Now,
	}

	program := tea.NewProgram(m)
	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.edit != nil {
			return m.updateEditMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeAdd {
			return m.updateAddMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		text := strings.TrimSpace(m.input.Value())
		t, err := m.list.Add(text, m.now())
		if err != nil {
			m.status = fmt.Sprintf("add failed: %v", err)
			return m, nil
		}
		if m.store != nil {
			if err := m.store.SaveTask(t); err != nil {
				m.status = fmt.Sprintf("save failed: %v", err)
			}
		}
		m.status = fmt.Sprintf("Added (%s) · Tip: %s", t.Category, category.Tip(t.Category, t.Text))
		m.cursor = indexOf(m.visible(), t.ID)
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	tasks := m.visible()
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(tasks) > 0 {
			m.cursor = clampCursor(m.cursor+1, len(tasks))
		}
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(tasks))
		}
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.Placeholder = "New task (keywords pick the category)"
		m.input.SetValue("")
		m.input.Focus()
		m.status = "Add mode: type the task and press Enter"
	case m.cfg.Keys.Delete:
		if len(tasks) == 0 {
			return m, nil
		}
		t := tasks[clampCursor(m.cursor, len(tasks))]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete %q? y/n", t.Text)
	case m.cfg.Keys.Edit:
		if len(tasks) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startEdit(tasks[clampCursor(m.cursor, len(tasks))])
	case m.cfg.Keys.SortPriority:
		m.sortBy = task.SortPriority
		m.cursor = 0
		m.status = "Sorted by priority"
	case m.cfg.Keys.SortDeadline:
		m.sortBy = task.SortDeadline
		m.cursor = 0
		m.status = "Sorted by deadline"
	case m.cfg.Keys.SortCreated:
		m.sortBy = task.SortCreated
		m.cursor = 0
		m.status = "Sorted by creation"
	case m.cfg.Keys.Filter:
		m.filter = nextFilter(m.filter)
		m.cursor = 0
		if m.filter == "" {
			m.status = "Filter: all categories"
		} else {
			m.status = "Filter: " + m.filter
		}
	case m.cfg.Keys.Reminders:
		m.showRem = !m.showRem
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.confirmDel = false
			return m, nil
		}
		id := m.pendingDel.ID
		if !m.list.Remove(id) {
			m.status = "Task already gone"
		} else {
			if m.store != nil {
				if err := m.store.DeleteTask(id); err != nil {
					m.status = fmt.Sprintf("delete failed: %v", err)
					m.confirmDel = false
					m.pendingDel = nil
					return m, nil
				}
			}
			m.status = "Deleted task"
		}
		m.cursor = clampCursor(m.cursor, m.list.Len())
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) startEdit(t task.Task) (tea.Model, tea.Cmd) {
	m.edit = &editState{taskID: t.ID, index: 0}
	m.mode = modeEdit
	m.loadEditField()
	m.input.Focus()
	m.status = "Edit: enter saves and advances, tab/shift+tab move, esc closes"
	return m, nil
}

// loadEditField points the text input at the current schema field.
func (m *Model) loadEditField() {
	t, ok := m.list.Get(m.edit.taskID)
	if !ok {
		return
	}
	spec := t.Schema().Fields[m.edit.index]
	v, _ := t.Field(spec.Name)
	m.input.SetValue(displayValue(spec, v))
	m.input.Placeholder = spec.Prompt
}

func (m Model) updateEditMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t, ok := m.list.Get(m.edit.taskID)
	if !ok {
		m.edit = nil
		m.mode = modeList
		m.input.Blur()
		return m, nil
	}
	fields := t.Schema().Fields

	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.edit = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "Closed editor"
		return m, nil
	case "tab", "shift+tab", m.cfg.Keys.Confirm, "enter":
		spec := fields[m.edit.index]
		committed, err := m.commitEditField(t, spec)
		if err != nil {
			m.status = fmt.Sprintf("%s: %v", spec.Name, err)
			return m, nil
		}
		if committed {
			m.status = fmt.Sprintf("Saved %s", spec.Name)
		}
		switch {
		case key == "shift+tab":
			m.edit.index = wrapIndex(m.edit.index-1, len(fields))
		case key == "tab" || m.edit.index < len(fields)-1:
			m.edit.index = wrapIndex(m.edit.index+1, len(fields))
		default:
			// Enter on the last field closes the editor.
			m.edit = nil
			m.mode = modeList
			m.input.Blur()
			m.status = "Saved"
			return m, nil
		}
		m.loadEditField()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// commitEditField writes the input back through the field store when the
// value changed. Returns whether a commit happened.
func (m *Model) commitEditField(t task.Task, spec category.FieldSpec) (bool, error) {
	v := inputValue(spec, m.input.Value())
	old, _ := t.Field(spec.Name)
	if sameValue(spec, old, v) {
		return false, nil
	}
	updated, err := m.list.SetField(t.ID, spec.Name, v, m.now())
	if err != nil {
		return false, err
	}
	if m.store != nil {
		if err := m.store.SaveTask(updated); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("DontTell.Do") + " " + dimStyle.Render("keep it secret, get it done"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.statsLine()))
	b.WriteString("\n\n")

	tasks := m.visible()
	if len(tasks) == 0 {
		if m.filter == "" {
			b.WriteString("No tasks yet. Press 'a' to add one.")
		} else {
			b.WriteString(fmt.Sprintf("No %s tasks. Press '%s' to change the filter.", m.filter, m.cfg.Keys.Filter))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList(tasks))
	}

	b.WriteString("\n---\n")

	switch {
	case m.edit != nil:
		b.WriteString(m.renderEditor())
	case m.mode == modeAdd:
		b.WriteString("New task\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case m.showRem:
		b.WriteString(m.renderReminders())
	default:
		b.WriteString(m.renderDetailPanel(tasks))
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) statsLine() string {
	now := m.now()
	filter := m.filter
	if filter == "" {
		filter = "all"
	}
	return fmt.Sprintf("%d tasks · %d high priority · %d due today · sort:%s · filter:%s",
		m.list.Len(), m.list.CountByPriority("High"), len(m.list.DueWithin(0, now)), m.sortBy, filter)
}

func (m Model) renderTaskList(tasks []task.Task) string {
	var b strings.Builder
	now := m.now()
	for i, t := range tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s %s", cursor, t.Schema().Icon, t.Text)
		if v, ok := t.Field(task.PriorityField); ok && v.Str != "" {
			line += " " + priorityBadge(v.Str)
		}
		if label, style, ok := deadlineLabel(t, now); ok {
			line += " " + style.Render(label)
		}
		line += " " + dimStyle.Render("("+t.Category+")")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderEditor() string {
	t, ok := m.list.Get(m.edit.taskID)
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Editing %q (%s)\n\n", t.Text, t.Category))
	for i, spec := range t.Schema().Fields {
		prefix := " "
		if i == m.edit.index {
			prefix = ">"
		}
		v, _ := t.Field(spec.Name)
		val := displayValue(spec, v)
		if strings.TrimSpace(val) == "" {
			val = dimStyle.Render("(empty)")
		}
		b.WriteString(fmt.Sprintf("%s %-12s : %s\n", prefix, spec.Name, val))
	}
	spec := t.Schema().Fields[m.edit.index]
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(spec.Prompt + editHint(spec)))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func (m Model) renderDetailPanel(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No task selected"
	}
	t := tasks[clampCursor(m.cursor, len(tasks))]
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", t.Schema().Icon, t.Text))
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s · created %s", t.Category, t.CreatedAt.Format("2006-01-02 15:04"))))
	b.WriteString("\n")
	for _, spec := range t.Schema().Fields {
		v, _ := t.Field(spec.Name)
		b.WriteString(fmt.Sprintf("%-12s : %s\n", spec.Name, renderValue(spec, v)))
	}
	return b.String()
}

func (m Model) renderReminders() string {
	reqs := m.book.Upcoming()
	if len(reqs) == 0 {
		return "No reminders scheduled. Set Time and Days on a daily task.\n"
	}
	var b strings.Builder
	b.WriteString("Upcoming reminders\n")
	for _, r := range reqs {
		b.WriteString(fmt.Sprintf("  %s · %s\n", r.FireAt.Format("Mon 2006-01-02 15:04"), r.Payload))
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move · %s add · %s edit · %s delete · %s filter · %s/%s/%s sort · %s reminders · %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Delete, k.Filter, k.SortPriority, k.SortDeadline, k.SortCreated, k.Reminders, k.Quit)
}

// visible applies the category filter and the current sort.
func (m Model) visible() []task.Task {
	tasks := m.list.SortedBy(m.sortBy)
	if m.filter == "" {
		return tasks
	}
	var out []task.Task
	for _, t := range tasks {
		if t.Category == m.filter {
			out = append(out, t)
		}
	}
	return out
}

func nextFilter(current string) string {
	ids := category.IDs()
	if current == "" {
		return ids[0]
	}
	for i, id := range ids {
		if id == current {
			if i == len(ids)-1 {
				return ""
			}
			return ids[i+1]
		}
	}
	return ""
}

func priorityBadge(level string) string {
	switch level {
	case "High":
		return highStyle.Render("[High]")
	case "Medium":
		return mediumStyle.Render("[Medium]")
	case "Low":
		return lowStyle.Render("[Low]")
	default:
		return "[" + level + "]"
	}
}

func deadlineLabel(t task.Task, now time.Time) (string, lipgloss.Style, bool) {
	d, ok := task.DaysUntil(t, now)
	if !ok {
		return "", lipgloss.Style{}, false
	}
	switch {
	case d < 0:
		n := -d
		word := "days"
		if n == 1 {
			word = "day"
		}
		return fmt.Sprintf("overdue by %d %s", n, word), overdueStyle, true
	case d == 0:
		return "due today", soonStyle, true
	case d == 1:
		return "due tomorrow", soonStyle, true
	default:
		return fmt.Sprintf("%d days left", d), dimStyle, true
	}
}

// displayValue renders a field value into the editor's text form.
func displayValue(spec category.FieldSpec, v task.Value) string {
	if spec.Kind.IsList() {
		return strings.Join(v.List, ",")
	}
	return v.Str
}

// renderValue renders a field value for the read-only detail panel.
func renderValue(spec category.FieldSpec, v task.Value) string {
	if spec.Kind.IsList() {
		if len(v.List) == 0 {
			return dimStyle.Render("(none)")
		}
		return strings.Join(v.List, ", ")
	}
	if strings.TrimSpace(v.Str) == "" {
		return dimStyle.Render("(empty)")
	}
	if spec.Kind == category.BulletedText {
		return "• " + strings.Join(splitItems(v.Str), "\n               • ")
	}
	return v.Str
}

// inputValue converts the editor's text back into a typed field value.
func inputValue(spec category.FieldSpec, raw string) task.Value {
	if spec.Kind.IsList() {
		return task.Value{List: splitItems(raw)}
	}
	return task.Value{Str: strings.TrimSpace(raw)}
}

func splitItems(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' || r == '\n' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func editHint(spec category.FieldSpec) string {
	switch spec.Kind {
	case category.Date:
		return " (YYYY-MM-DD)"
	case category.Time:
		return " (HH:MM)"
	case category.SingleSelect:
		return " (" + strings.Join(spec.Options, "/") + ")"
	case category.MultiSelect:
		return " (comma-separated: " + strings.Join(spec.Options, ",") + ")"
	case category.BulletedText:
		return " (separate items with commas)"
	default:
		return ""
	}
}

func sameValue(spec category.FieldSpec, a, b task.Value) bool {
	if spec.Kind.IsList() {
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if a.List[i] != b.List[i] {
				return false
			}
		}
		return true
	}
	return a.Str == b.Str
}

func indexOf(tasks []task.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return 0
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
