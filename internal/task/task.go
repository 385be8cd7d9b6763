// Package task implements task records with category-driven field schemas.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dontell/internal/category"
)

var (
	ErrEmptyText     = errors.New("task text is empty")
	ErrUnknownField  = errors.New("unknown field")
	ErrTypeMismatch  = errors.New("value shape does not match field kind")
	ErrInvalidOption = errors.New("value is not one of the field options")
	ErrInvalidTime   = errors.New("time value must be HH:MM")
	ErrUnknownTask   = errors.New("no task with that id")
)

// Value carries a field value. Scalar kinds (text, date, time, single-select)
// use Str; multi-select fields use List. The active side is decided by the
// field's kind in the category schema.
type Value struct {
	Str  string   `json:"str,omitempty"`
	List []string `json:"list,omitempty"`
}

// String makes a scalar value.
func String(s string) Value { return Value{Str: s} }

// Strings makes a multi-select value.
func Strings(ss ...string) Value { return Value{List: ss} }

func (v Value) clone() Value {
	if v.List == nil {
		return v
	}
	out := make([]string, len(v.List))
	copy(out, v.List)
	return Value{Str: v.Str, List: out}
}

// Task is one tracked item. Text, Category and CreatedAt are fixed at
// creation; Fields is mutated one entry at a time through SetField. The
// Fields keys always equal the category schema's field names.
type Task struct {
	ID        string           `json:"id"`
	Text      string           `json:"text"`
	Category  string           `json:"category"`
	CreatedAt time.Time        `json:"created_at"`
	Fields    map[string]Value `json:"fields"`
}

// New classifies text and builds a task with every schema field initialized
// empty. Whitespace-only text is rejected.
func New(text string, now time.Time) (Task, error) {
	if strings.TrimSpace(text) == "" {
		return Task{}, ErrEmptyText
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Task{}, fmt.Errorf("new task id: %w", err)
	}

	cat := category.Classify(text)
	schema := category.SchemaOf(cat)
	fields := make(map[string]Value, len(schema.Fields))
	for _, f := range schema.Fields {
		if f.Kind.IsList() {
			fields[f.Name] = Value{List: []string{}}
		} else {
			fields[f.Name] = Value{}
		}
	}

	return Task{
		ID:        id.String(),
		Text:      text,
		Category:  cat,
		CreatedAt: now,
		Fields:    fields,
	}, nil
}

// Schema returns the category schema backing this task's fields.
func (t Task) Schema() category.Schema {
	return category.SchemaOf(t.Category)
}

// Field returns the current value for name.
func (t Task) Field(name string) (Value, bool) {
	v, ok := t.Fields[name]
	return v, ok
}

// SetField returns a copy of the task with exactly one field replaced. The
// receiver is left untouched; on error nothing is committed. Values are
// validated against the field's kind here, at the boundary, so downstream
// consumers (scheduling, views) never see a malformed committed value.
func (t Task) SetField(name string, v Value) (Task, error) {
	spec, ok := t.Schema().Field(name)
	if !ok {
		return Task{}, fmt.Errorf("%w: %q in category %q", ErrUnknownField, name, t.Category)
	}
	if err := checkShape(spec, v); err != nil {
		return Task{}, err
	}

	out := t
	out.Fields = make(map[string]Value, len(t.Fields))
	for k, val := range t.Fields {
		out.Fields[k] = val.clone()
	}
	out.Fields[name] = v.clone()
	return out, nil
}

func checkShape(spec category.FieldSpec, v Value) error {
	if spec.Kind.IsList() {
		if v.Str != "" {
			return fmt.Errorf("%w: scalar given for multi-select %q", ErrTypeMismatch, spec.Name)
		}
		for _, item := range v.List {
			if !hasOption(spec.Options, item) {
				return fmt.Errorf("%w: %q for field %q", ErrInvalidOption, item, spec.Name)
			}
		}
		return nil
	}
	if v.List != nil {
		return fmt.Errorf("%w: list given for scalar %q", ErrTypeMismatch, spec.Name)
	}
	switch spec.Kind {
	case category.SingleSelect:
		if v.Str != "" && !hasOption(spec.Options, v.Str) {
			return fmt.Errorf("%w: %q for field %q", ErrInvalidOption, v.Str, spec.Name)
		}
	case category.Time:
		if v.Str != "" {
			if _, err := time.Parse("15:04", v.Str); err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidTime, v.Str)
			}
		}
	}
	return nil
}

func hasOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
