package task

import (
	"sort"
	"time"

	"dontell/internal/category"
)

// Field names the derived views depend on. Every category schema carries
// Priority and Deadline under these names.
const (
	PriorityField = "Priority"
	DeadlineField = "Deadline"
)

// Sort criteria accepted by SortedBy.
const (
	SortPriority = "priority"
	SortDeadline = "deadline"
	SortCreated  = "created"
)

// Scheduler is the reminder port the collection drives. Reschedule replaces
// every live reminder entry for the task with a freshly computed set; Cancel
// drops them all. Implemented by schedule.Planner.
type Scheduler interface {
	Reschedule(t Task, now time.Time)
	Cancel(taskID string)
}

// List owns the session's tasks in creation order. It is not safe for
// concurrent use; a single UI session owns it exclusively.
type List struct {
	tasks []Task
	sched Scheduler
}

// NewList builds an empty collection. sched may be nil when reminders are
// not wanted (tests, read-only views).
func NewList(sched Scheduler) *List {
	return &List{sched: sched}
}

// Load seeds the collection with previously stored tasks, preserving order.
func (l *List) Load(tasks []Task) {
	l.tasks = append(l.tasks[:0], tasks...)
}

// Add classifies text and appends a new task.
func (l *List) Add(text string, now time.Time) (Task, error) {
	t, err := New(text, now)
	if err != nil {
		return Task{}, err
	}
	l.tasks = append(l.tasks, t)
	return t, nil
}

// Get returns the task with the given id.
func (l *List) Get(id string) (Task, bool) {
	for _, t := range l.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Remove deletes a task by id and cancels its reminders.
func (l *List) Remove(id string) bool {
	for i, t := range l.tasks {
		if t.ID == id {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			if l.sched != nil {
				l.sched.Cancel(id)
			}
			return true
		}
	}
	return false
}

// SetField replaces one field on the identified task. When the task's
// category schedules reminders (a time field plus a weekday multi-select)
// and one of those two fields changed, the scheduler recomputes the task's
// reminder set from the new combination. Errors commit nothing.
func (l *List) SetField(id, name string, v Value, now time.Time) (Task, error) {
	for i, t := range l.tasks {
		if t.ID != id {
			continue
		}
		updated, err := t.SetField(name, v)
		if err != nil {
			return Task{}, err
		}
		l.tasks[i] = updated
		if l.sched != nil && remindersAffected(updated.Schema(), name) {
			l.sched.Reschedule(updated, now)
		}
		return updated, nil
	}
	return Task{}, ErrUnknownTask
}

func remindersAffected(s category.Schema, changed string) bool {
	timeField, okTime := s.FieldOfKind(category.Time)
	daysField, okDays := s.FieldOfKind(category.MultiSelect)
	if !okTime || !okDays {
		return false
	}
	return changed == timeField.Name || changed == daysField.Name
}

// Tasks returns the tasks in creation order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Len returns the number of tasks.
func (l *List) Len() int { return len(l.tasks) }

// ByCategory returns the tasks of one category, in creation order.
func (l *List) ByCategory(id string) []Task {
	var out []Task
	for _, t := range l.tasks {
		if t.Category == id {
			out = append(out, t)
		}
	}
	return out
}

// CountByPriority counts tasks whose Priority field equals level.
func (l *List) CountByPriority(level string) int {
	n := 0
	for _, t := range l.tasks {
		if v, ok := t.Fields[PriorityField]; ok && v.Str == level {
			n++
		}
	}
	return n
}

// DueWithin returns tasks whose deadline falls between today and now+days,
// inclusive, by calendar day. Tasks without a parseable deadline are
// excluded, as are overdue ones. DueWithin(0, now) means "due today".
func (l *List) DueWithin(days int, now time.Time) []Task {
	var out []Task
	for _, t := range l.tasks {
		dl, ok := deadlineOf(t)
		if !ok {
			continue
		}
		d := calendarDaysUntil(dl, now)
		if d >= 0 && d <= days {
			out = append(out, t)
		}
	}
	return out
}

// SortedBy returns a sorted copy of the tasks. Priority ranks High before
// Medium before Low with unset last; deadline sorts ascending with missing
// deadlines last. Both sorts are stable, so ties keep creation order.
func (l *List) SortedBy(criterion string) []Task {
	out := l.Tasks()
	switch criterion {
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return priorityRank(out[i]) < priorityRank(out[j])
		})
	case SortDeadline:
		sort.SliceStable(out, func(i, j int) bool {
			di, iok := deadlineOf(out[i])
			dj, jok := deadlineOf(out[j])
			if iok != jok {
				return iok
			}
			if !iok {
				return false
			}
			return di.Before(dj)
		})
	}
	return out
}

func priorityRank(t Task) int {
	v, ok := t.Fields[PriorityField]
	if !ok {
		return 4
	}
	switch v.Str {
	case "High":
		return 1
	case "Medium":
		return 2
	case "Low":
		return 3
	default:
		return 4
	}
}

func deadlineOf(t Task) (time.Time, bool) {
	v, ok := t.Fields[DeadlineField]
	if !ok || v.Str == "" {
		return time.Time{}, false
	}
	return ParseDeadline(v.Str)
}

// ParseDeadline accepts the editor's date format and the storage timestamp
// format.
func ParseDeadline(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// DaysUntil reports how many whole calendar days remain until the task's
// deadline. The second result is false when no parseable deadline is set.
func DaysUntil(t Task, now time.Time) (int, bool) {
	dl, ok := deadlineOf(t)
	if !ok {
		return 0, false
	}
	return calendarDaysUntil(dl, now), true
}

// calendarDaysUntil counts whole calendar days from now's date to dl's date.
// Negative means overdue.
func calendarDaysUntil(dl, now time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(dl.Year(), dl.Month(), dl.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
