package task

import (
	"errors"
	"testing"
	"time"

	"dontell/internal/category"
)

var testNow = time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

func TestNewRejectsBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := New(text, testNow); !errors.Is(err, ErrEmptyText) {
			t.Errorf("New(%q): got %v, want ErrEmptyText", text, err)
		}
	}
}

func TestNewInitializesSchemaFields(t *testing.T) {
	tk, err := New("morning exercise routine", testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tk.Category != "daily" {
		t.Fatalf("category: got %q, want daily", tk.Category)
	}
	if tk.ID == "" {
		t.Fatalf("id not assigned")
	}
	if !tk.CreatedAt.Equal(testNow) {
		t.Fatalf("created at: got %v, want %v", tk.CreatedAt, testNow)
	}

	schema := category.SchemaOf("daily")
	if len(tk.Fields) != len(schema.Fields) {
		t.Fatalf("field count: got %d, want %d", len(tk.Fields), len(schema.Fields))
	}
	for _, spec := range schema.Fields {
		v, ok := tk.Fields[spec.Name]
		if !ok {
			t.Fatalf("missing field %q", spec.Name)
		}
		if spec.Kind.IsList() {
			if v.List == nil || len(v.List) != 0 {
				t.Errorf("%s: want empty list, got %+v", spec.Name, v)
			}
		} else if v.Str != "" {
			t.Errorf("%s: want empty string, got %q", spec.Name, v.Str)
		}
	}
}

func TestNewIDsDistinct(t *testing.T) {
	a, err := New("buy milk", testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New("buy bread", testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("ids must be unique, both %q", a.ID)
	}
}

func TestSetFieldUnknownName(t *testing.T) {
	tk, _ := New("buy milk", testNow)
	before := tk.Fields["Budget"].Str
	if _, err := tk.SetField("Velocity", String("warp 9")); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("got %v, want ErrUnknownField", err)
	}
	if tk.Fields["Budget"].Str != before {
		t.Fatalf("failed SetField mutated the task")
	}
}

func TestSetFieldShapeMismatch(t *testing.T) {
	tk, _ := New("morning exercise", testNow)

	// List value for a scalar field.
	if _, err := tk.SetField("Notes", Strings("a", "b")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("list for scalar: got %v, want ErrTypeMismatch", err)
	}
	// Scalar value for the multi-select field.
	if _, err := tk.SetField("Days", String("Mon")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("scalar for multi-select: got %v, want ErrTypeMismatch", err)
	}
}

func TestSetFieldOptionValidation(t *testing.T) {
	tk, _ := New("morning exercise", testNow)

	if _, err := tk.SetField("Priority", String("Urgent")); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("bad single-select: got %v, want ErrInvalidOption", err)
	}
	if _, err := tk.SetField("Days", Strings("Mon", "Funday")); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("bad multi-select item: got %v, want ErrInvalidOption", err)
	}
	if _, err := tk.SetField("Priority", String("")); err != nil {
		t.Errorf("clearing a select must be allowed: %v", err)
	}
}

func TestSetFieldTimeValidation(t *testing.T) {
	tk, _ := New("morning exercise", testNow)

	if _, err := tk.SetField("Time", String("25:70")); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("out of range: got %v, want ErrInvalidTime", err)
	}
	if _, err := tk.SetField("Time", String("half past nine")); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("garbage: got %v, want ErrInvalidTime", err)
	}
	if _, err := tk.SetField("Time", String("09:30")); err != nil {
		t.Errorf("valid time rejected: %v", err)
	}
}

func TestSetFieldReplacesExactlyOne(t *testing.T) {
	tk, _ := New("clean the kitchen", testNow)

	step1, err := tk.SetField("Priority", String("High"))
	if err != nil {
		t.Fatalf("SetField: %v", err)
	}
	step2, err := step1.SetField("Priority", String("Low"))
	if err != nil {
		t.Fatalf("SetField: %v", err)
	}

	if step2.Fields["Priority"].Str != "Low" {
		t.Fatalf("priority: got %q, want Low", step2.Fields["Priority"].Str)
	}
	for name, v := range tk.Fields {
		if name == "Priority" {
			continue
		}
		if step2.Fields[name].Str != v.Str {
			t.Errorf("field %q changed: %q -> %q", name, v.Str, step2.Fields[name].Str)
		}
	}
	if step2.ID != tk.ID || step2.Text != tk.Text || step2.Category != tk.Category || !step2.CreatedAt.Equal(tk.CreatedAt) {
		t.Fatalf("metadata changed across SetField")
	}
	// The original task is untouched.
	if tk.Fields["Priority"].Str != "" {
		t.Fatalf("original mutated: priority %q", tk.Fields["Priority"].Str)
	}
}

func TestSetFieldStructuralCopy(t *testing.T) {
	tk, _ := New("morning exercise", testNow)
	withDays, err := tk.SetField("Days", Strings("Mon", "Wed"))
	if err != nil {
		t.Fatalf("SetField: %v", err)
	}
	withNotes, err := withDays.SetField("Notes", String("stretch first"))
	if err != nil {
		t.Fatalf("SetField: %v", err)
	}

	// Mutating one copy's list must not leak into the other.
	withNotes.Fields["Days"].List[0] = "Sun"
	if withDays.Fields["Days"].List[0] != "Mon" {
		t.Fatalf("list shared between task copies: %v", withDays.Fields["Days"].List)
	}
}
