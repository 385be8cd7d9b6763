package schedule

import (
	"time"

	"dontell/internal/category"
	"dontell/internal/task"
)

// Request is a delivery intent handed to the notifier. ID is
// "<taskID>-<weekday>", so every request for one task shares the task id as
// prefix and can be cancelled as a group.
type Request struct {
	ID           string
	FireAt       time.Time
	RepeatWeekly bool
	Payload      string
}

// Notifier is the delivery port. Schedule is fire-and-forget; CancelAll
// drops every live request whose id starts with the given task id prefix.
type Notifier interface {
	Schedule(req Request)
	CancelAll(taskIDPrefix string)
}

// Planner turns task field state into reminder requests. Recomputation is a
// full replace: every prior entry for the task is cancelled before the new
// set is submitted, so deselected weekdays never leave stale reminders.
// Planner implements task.Scheduler.
type Planner struct {
	notifier Notifier
}

func NewPlanner(n Notifier) *Planner {
	return &Planner{notifier: n}
}

// Reschedule recomputes the reminder set for t. Scheduling only happens when
// the task's schema has a time field and a weekday multi-select and both
// hold values; otherwise the cancel alone runs and no partial schedule is
// left behind.
func (p *Planner) Reschedule(t task.Task, now time.Time) {
	p.notifier.CancelAll(t.ID)

	schema := t.Schema()
	timeField, okTime := schema.FieldOfKind(category.Time)
	daysField, okDays := schema.FieldOfKind(category.MultiSelect)
	if !okTime || !okDays {
		return
	}
	timeValue, _ := t.Field(timeField.Name)
	daysValue, _ := t.Field(daysField.Name)
	if timeValue.Str == "" || len(daysValue.List) == 0 {
		return
	}

	tod, err := ParseTimeOfDay(timeValue.Str)
	if err != nil {
		// The field store validates time values before commit; a bad
		// stored value only means no reminders.
		return
	}
	entries, err := Weekly(tod, daysValue.List, now)
	if err != nil {
		return
	}
	for _, e := range entries {
		p.notifier.Schedule(Request{
			ID:           t.ID + "-" + e.Weekday,
			FireAt:       e.FireAt,
			RepeatWeekly: true,
			Payload:      t.Text,
		})
	}
}

// Cancel drops every reminder for the task, used when the task is deleted.
func (p *Planner) Cancel(taskID string) {
	p.notifier.CancelAll(taskID)
}
