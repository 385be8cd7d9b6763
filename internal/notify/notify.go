// Package notify implements the reminder delivery port with an in-process
// reminder book. Delivery here means keeping the live set visible to the UI;
// there are no retries and no external transport.
package notify

import (
	"sort"
	"strings"

	"dontell/internal/schedule"
)

// Book holds the live reminder requests keyed by identifier. It implements
// schedule.Notifier. Not safe for concurrent use; the single UI session owns
// it.
type Book struct {
	live map[string]schedule.Request
}

func NewBook() *Book {
	return &Book{live: make(map[string]schedule.Request)}
}

// Schedule records a request, replacing any prior one with the same id.
func (b *Book) Schedule(req schedule.Request) {
	b.live[req.ID] = req
}

// CancelAll removes every request whose id starts with the task id prefix.
func (b *Book) CancelAll(taskIDPrefix string) {
	for id := range b.live {
		if strings.HasPrefix(id, taskIDPrefix) {
			delete(b.live, id)
		}
	}
}

// Upcoming returns the live requests ordered by fire instant, soonest first.
// Requests keep their stored FireAt even once it passes; advancing the
// weekly cadence is the delivery side's concern, not recomputed here.
func (b *Book) Upcoming() []schedule.Request {
	out := make([]schedule.Request, 0, len(b.live))
	for _, req := range b.live {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].FireAt.Before(out[j].FireAt)
	})
	return out
}

// Len returns the number of live requests.
func (b *Book) Len() int { return len(b.live) }
