package task

import (
	"errors"
	"testing"
	"time"
)

// fakeScheduler records the reminder port calls the collection makes.
type fakeScheduler struct {
	rescheduled []string
	cancelled   []string
}

func (f *fakeScheduler) Reschedule(t Task, now time.Time) {
	f.rescheduled = append(f.rescheduled, t.ID)
}

func (f *fakeScheduler) Cancel(taskID string) {
	f.cancelled = append(f.cancelled, taskID)
}

func mustAdd(t *testing.T, l *List, text string, now time.Time) Task {
	t.Helper()
	tk, err := l.Add(text, now)
	if err != nil {
		t.Fatalf("Add(%q): %v", text, err)
	}
	return tk
}

func mustSet(t *testing.T, l *List, id, name string, v Value, now time.Time) Task {
	t.Helper()
	tk, err := l.SetField(id, name, v, now)
	if err != nil {
		t.Fatalf("SetField(%s=%v): %v", name, v, err)
	}
	return tk
}

func TestListAddRemove(t *testing.T) {
	sched := &fakeScheduler{}
	l := NewList(sched)

	a := mustAdd(t, l, "buy milk", testNow)
	b := mustAdd(t, l, "clean the garage", testNow)
	if l.Len() != 2 {
		t.Fatalf("len: got %d, want 2", l.Len())
	}

	if !l.Remove(a.ID) {
		t.Fatalf("Remove returned false for existing task")
	}
	if l.Remove(a.ID) {
		t.Fatalf("Remove returned true for missing task")
	}
	if len(sched.cancelled) != 1 || sched.cancelled[0] != a.ID {
		t.Fatalf("delete must cancel reminders once: %v", sched.cancelled)
	}
	if _, ok := l.Get(b.ID); !ok {
		t.Fatalf("remaining task lost")
	}
}

func TestListSetFieldUnknownTask(t *testing.T) {
	l := NewList(nil)
	if _, err := l.SetField("nope", "Priority", String("High"), testNow); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("got %v, want ErrUnknownTask", err)
	}
}

func TestListSetFieldTriggersReschedule(t *testing.T) {
	sched := &fakeScheduler{}
	l := NewList(sched)
	daily := mustAdd(t, l, "morning exercise", testNow)
	plain := mustAdd(t, l, "buy milk", testNow)

	mustSet(t, l, daily.ID, "Time", String("07:30"), testNow)
	if len(sched.rescheduled) != 1 {
		t.Fatalf("time edit must reschedule: %v", sched.rescheduled)
	}
	mustSet(t, l, daily.ID, "Days", Strings("Mon", "Wed"), testNow)
	if len(sched.rescheduled) != 2 {
		t.Fatalf("weekday edit must reschedule: %v", sched.rescheduled)
	}

	// Unrelated fields never touch the scheduler, nor do categories
	// without reminder fields.
	mustSet(t, l, daily.ID, "Notes", String("slow start"), testNow)
	mustSet(t, l, plain.ID, "Priority", String("High"), testNow)
	if len(sched.rescheduled) != 2 {
		t.Fatalf("unexpected reschedule: %v", sched.rescheduled)
	}
}

func TestListSetFieldErrorCommitsNothing(t *testing.T) {
	sched := &fakeScheduler{}
	l := NewList(sched)
	daily := mustAdd(t, l, "morning exercise", testNow)

	if _, err := l.SetField(daily.ID, "Time", String("99:99"), testNow); err == nil {
		t.Fatalf("expected invalid time error")
	}
	got, _ := l.Get(daily.ID)
	if got.Fields["Time"].Str != "" {
		t.Fatalf("failed update committed: %q", got.Fields["Time"].Str)
	}
	if len(sched.rescheduled) != 0 {
		t.Fatalf("failed update reached the scheduler")
	}
}

func TestCountByPriority(t *testing.T) {
	l := NewList(nil)
	a := mustAdd(t, l, "buy milk", testNow)
	b := mustAdd(t, l, "clean up", testNow)
	mustAdd(t, l, "call mom", testNow)

	mustSet(t, l, a.ID, "Priority", String("High"), testNow)
	mustSet(t, l, b.ID, "Priority", String("High"), testNow)

	if got := l.CountByPriority("High"); got != 2 {
		t.Fatalf("High: got %d, want 2", got)
	}
	if got := l.CountByPriority("Low"); got != 0 {
		t.Fatalf("Low: got %d, want 0", got)
	}
}

func TestDueWithin(t *testing.T) {
	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	l := NewList(nil)
	today := mustAdd(t, l, "buy milk", now)
	nextWeek := mustAdd(t, l, "buy flowers", now)
	overdue := mustAdd(t, l, "buy stamps", now)
	mustAdd(t, l, "buy nothing", now) // no deadline

	mustSet(t, l, today.ID, "Deadline", String("2026-08-26"), now)
	mustSet(t, l, nextWeek.ID, "Deadline", String("2026-09-01"), now)
	mustSet(t, l, overdue.ID, "Deadline", String("2026-08-20"), now)

	if got := l.DueWithin(0, now); len(got) != 1 || got[0].ID != today.ID {
		t.Fatalf("DueWithin(0): got %d tasks", len(got))
	}
	if got := l.DueWithin(7, now); len(got) != 2 {
		t.Fatalf("DueWithin(7): got %d tasks, want 2", len(got))
	}
}

func TestSortedByPriorityStable(t *testing.T) {
	l := NewList(nil)
	first := mustAdd(t, l, "task one", testNow)
	second := mustAdd(t, l, "task two", testNow)
	third := mustAdd(t, l, "task three", testNow)

	mustSet(t, l, first.ID, "Priority", String("Low"), testNow)
	mustSet(t, l, second.ID, "Priority", String("High"), testNow)
	mustSet(t, l, third.ID, "Priority", String("High"), testNow)

	sorted := l.SortedBy(SortPriority)
	if sorted[0].ID != second.ID || sorted[1].ID != third.ID {
		t.Fatalf("High ties must keep insertion order: %s, %s", sorted[0].Text, sorted[1].Text)
	}
	if sorted[2].ID != first.ID {
		t.Fatalf("Low must sort after High")
	}

	// Unset priority ranks last.
	fourth := mustAdd(t, l, "task four", testNow)
	sorted = l.SortedBy(SortPriority)
	if sorted[len(sorted)-1].ID != fourth.ID {
		t.Fatalf("unset priority must sort last")
	}
}

func TestSortedByDeadline(t *testing.T) {
	l := NewList(nil)
	late := mustAdd(t, l, "later task", testNow)
	soon := mustAdd(t, l, "sooner task", testNow)
	none := mustAdd(t, l, "undated task", testNow)

	mustSet(t, l, late.ID, "Deadline", String("2026-12-01"), testNow)
	mustSet(t, l, soon.ID, "Deadline", String("2026-09-01"), testNow)

	sorted := l.SortedBy(SortDeadline)
	if sorted[0].ID != soon.ID || sorted[1].ID != late.ID || sorted[2].ID != none.ID {
		t.Fatalf("deadline order wrong: %s, %s, %s", sorted[0].Text, sorted[1].Text, sorted[2].Text)
	}
}

func TestSortedByDoesNotReorderList(t *testing.T) {
	l := NewList(nil)
	a := mustAdd(t, l, "task one", testNow)
	b := mustAdd(t, l, "task two", testNow)
	mustSet(t, l, b.ID, "Priority", String("High"), testNow)

	l.SortedBy(SortPriority)
	tasks := l.Tasks()
	if tasks[0].ID != a.ID || tasks[1].ID != b.ID {
		t.Fatalf("SortedBy must not mutate the collection order")
	}
}

func TestByCategory(t *testing.T) {
	l := NewList(nil)
	mustAdd(t, l, "buy milk", testNow)
	mustAdd(t, l, "buy bread", testNow)
	mustAdd(t, l, "write some code", testNow)

	if got := l.ByCategory("groceries"); len(got) != 2 {
		t.Fatalf("groceries: got %d, want 2", len(got))
	}
	if got := l.ByCategory("chores"); len(got) != 0 {
		t.Fatalf("chores: got %d, want 0", len(got))
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 8, 26, 23, 30, 0, 0, time.UTC)
	l := NewList(nil)
	tk := mustAdd(t, l, "buy milk", now)

	if _, ok := DaysUntil(tk, now); ok {
		t.Fatalf("no deadline must report !ok")
	}
	tk = mustSet(t, l, tk.ID, "Deadline", String("2026-08-27"), now)
	if d, ok := DaysUntil(tk, now); !ok || d != 1 {
		t.Fatalf("got %d ok=%v, want 1 (late evening still counts calendar days)", d, ok)
	}
	tk = mustSet(t, l, tk.ID, "Deadline", String("not a date"), now)
	if _, ok := DaysUntil(tk, now); ok {
		t.Fatalf("unparseable deadline must report !ok")
	}
}
