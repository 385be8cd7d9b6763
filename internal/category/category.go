// Package category holds the static category table and the keyword classifier.
package category

import "strings"

type Kind int

const (
	Text Kind = iota
	MultilineText
	BulletedText
	Date
	Time
	SingleSelect
	MultiSelect
)

// IsList reports whether values of this kind are list-shaped.
func (k Kind) IsList() bool {
	return k == MultiSelect
}

// FieldSpec describes one editable field of a category.
// Name is unique within its category; Options is required for select kinds.
type FieldSpec struct {
	Name    string
	Prompt  string
	Kind    Kind
	Options []string
}

// Schema is one category entry: id, matching keywords, ordered fields and a
// presentation glyph. The fallback category has no keywords.
type Schema struct {
	ID       string
	Keywords []string
	Fields   []FieldSpec
	Icon     string
}

// Field returns the spec for name and whether it exists.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldOfKind returns the first field of the given kind.
func (s Schema) FieldOfKind(k Kind) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Kind == k {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Fallback is the category assigned when no keyword matches.
const Fallback = "generic"

// Weekdays are the multi-select options used by recurring categories, in the
// order reminders display them.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var priorityOptions = []string{"High", "Medium", "Low"}

// registry order decides classification precedence: first match wins.
// The fallback entry is last and has no keywords.
var registry = []Schema{
	{
		ID:       "development",
		Keywords: []string{"app", "program", "code", "build", "device", "software", "hardware", "develop", "tech"},
		Icon:     "#",
		Fields: []FieldSpec{
			{Name: "Description", Prompt: "What does it do?", Kind: Text},
			{Name: "Deadline", Prompt: "When do you want it done?", Kind: Date},
			{Name: "Priority", Prompt: "High, Medium, or Low?", Kind: SingleSelect, Options: priorityOptions},
			{Name: "Tools/Tech", Prompt: "What tools or languages?", Kind: Text},
			{Name: "Steps", Prompt: "List main steps or milestones", Kind: BulletedText},
			{Name: "Resources", Prompt: "What do you need (e.g., tutorials)?", Kind: Text},
		},
	},
	{
		ID:       "groceries",
		Keywords: []string{"grocery", "shop", "buy", "store", "food", "market"},
		Icon:     "$",
		Fields: []FieldSpec{
			{Name: "Description", Prompt: "What are you shopping for?", Kind: Text},
			{Name: "Deadline", Prompt: "By when?", Kind: Date},
			{Name: "Priority", Prompt: "High, Medium, or Low?", Kind: SingleSelect, Options: priorityOptions},
			{Name: "Items", Prompt: "List items to buy", Kind: BulletedText},
			{Name: "Budget", Prompt: "How much to spend?", Kind: Text},
		},
	},
	{
		ID:       "chores",
		Keywords: []string{"clean", "chore", "tidy", "wash", "organize", "dust", "vacuum"},
		Icon:     "~",
		Fields: []FieldSpec{
			{Name: "Description", Prompt: "What needs doing?", Kind: Text},
			{Name: "Deadline", Prompt: "By when?", Kind: Date},
			{Name: "Priority", Prompt: "High, Medium, or Low?", Kind: SingleSelect, Options: priorityOptions},
			{Name: "Tasks", Prompt: "List specific tasks", Kind: BulletedText},
			{Name: "Duration", Prompt: "How long will it take?", Kind: Text},
		},
	},
	{
		ID:       "daily",
		Keywords: []string{"daily", "routine", "exercise", "read", "meditate", "habit"},
		Icon:     "@",
		Fields: []FieldSpec{
			{Name: "Description", Prompt: "Whats the task?", Kind: Text},
			{Name: "Deadline", Prompt: "By when today?", Kind: Date},
			{Name: "Priority", Prompt: "High, Medium, or Low?", Kind: SingleSelect, Options: priorityOptions},
			{Name: "Time", Prompt: "When will you do it?", Kind: Time},
			{Name: "Days", Prompt: "Which days?", Kind: MultiSelect, Options: Weekdays},
			{Name: "Notes", Prompt: "Any extra details?", Kind: Text},
		},
	},
	{
		ID:   Fallback,
		Icon: "-",
		Fields: []FieldSpec{
			{Name: "Description", Prompt: "What is it about?", Kind: Text},
			{Name: "Deadline", Prompt: "When is it due?", Kind: Date},
			{Name: "Priority", Prompt: "High, Medium, or Low?", Kind: SingleSelect, Options: priorityOptions},
			{Name: "Notes", Prompt: "Additional details", Kind: MultilineText},
		},
	},
}

// IDs returns all category ids in registry order, fallback last.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for _, s := range registry {
		ids = append(ids, s.ID)
	}
	return ids
}

// SchemaOf looks up a category schema. Unknown ids resolve to the fallback
// schema so a stored task with a stale category still renders.
func SchemaOf(id string) Schema {
	for _, s := range registry {
		if s.ID == id {
			return s
		}
	}
	return SchemaOf(Fallback)
}

// Classify maps raw task text to a category id. Categories are tried in
// registry order and the first one with any keyword contained in the
// lower-cased text wins. Ties resolve by registry order, never by match
// count, so results stay reproducible.
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, s := range registry {
		if len(s.Keywords) == 0 {
			continue
		}
		for _, kw := range s.Keywords {
			if strings.Contains(lower, kw) {
				return s.ID
			}
		}
	}
	return Fallback
}

// Tip returns a short piece of advice for a freshly created task.
func Tip(categoryID, text string) string {
	lower := strings.ToLower(text)
	switch categoryID {
	case "development":
		if strings.Contains(lower, "app") {
			return "Start with a minimal prototype focused on core functionality."
		}
		if strings.Contains(lower, "device") {
			return "Check compatibility requirements before beginning."
		}
		return "Create a small proof-of-concept first before expanding."
	case "groceries":
		return "Organize your shopping list by store sections to save time."
	case "chores":
		return "Set a timer for 15 minutes and focus on one area only."
	case "daily":
		return "Link this habit to an existing routine for better consistency."
	default:
		return "Break this down into smaller, actionable steps for better progress."
	}
}
