package googletasks

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	tasks "google.golang.org/api/tasks/v1"

	"gtodo/internal/service"
)

// Google Tasks has no tags, so tags and the update stamp travel in the task
// notes as a JSON document on a last line prefixed with metaPrefix. Anything
// above that line is the user's own text and is carried through updates
// untouched.
const metaPrefix = "gtodo:"

type meta struct {
	Tags           []string `json:"tags"`
	LastUpdateTime int64    `json:"lastUpdateTime"`
}

// encodeNotes appends t's metadata line to the user's text.
func encodeNotes(text string, t service.Task) string {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	data, _ := json.Marshal(meta{Tags: tags, LastUpdateTime: t.LastUpdateTime})
	line := metaPrefix + string(data)
	text = strings.TrimRight(text, "\r\n ")
	if text == "" {
		return line
	}
	return text + "\n\n" + line
}

// splitNotes separates the user's text from the metadata line.
func splitNotes(notes string) (text string, m meta, ok bool) {
	body := strings.TrimRight(notes, "\r\n ")
	last := body
	if i := strings.LastIndex(body, "\n"); i >= 0 {
		text, last = body[:i], body[i+1:]
	} else {
		text = ""
	}
	if payload, found := strings.CutPrefix(strings.TrimSpace(last), metaPrefix); found {
		if err := json.Unmarshal([]byte(payload), &m); err == nil {
			return strings.TrimRight(text, "\r\n "), m, true
		}
	}
	return notes, meta{}, false
}

// toAPI builds a new API task from t.
func toAPI(t service.Task) *tasks.Task {
	item := &tasks.Task{Id: t.ID}
	applyTask(item, t)
	return item
}

// applyTask writes the model fields of t onto a stored item. Fields the
// model does not carry (due date, links, parent, position) and the user's
// note text are left as they are.
func applyTask(item *tasks.Task, t service.Task) {
	text, _, _ := splitNotes(item.Notes)
	item.Title = t.Name
	item.Notes = encodeNotes(text, t)
	item.NullFields = nil

	if t.IsDone {
		if item.Status != statusCompleted || item.Completed == nil {
			stamp := time.Now().UTC()
			if t.LastUpdateTime > 0 {
				stamp = time.UnixMilli(t.LastUpdateTime).UTC()
			}
			item.Completed = googleTime(stamp)
		}
		item.Status = statusCompleted
		return
	}
	item.Status = statusNeedsAction
	// Update replaces the whole resource; a nil Completed is dropped from
	// the request, so clear it explicitly.
	item.Completed = nil
	item.NullFields = []string{"Completed"}
}

func fromAPI(item *tasks.Task, log *logrus.Entry) service.Task {
	t := service.Task{
		ID:     item.Id,
		Name:   item.Title,
		IsDone: item.Status == statusCompleted,
		Tags:   []string{},
	}
	if _, m, ok := splitNotes(item.Notes); ok {
		if m.Tags != nil {
			t.Tags = m.Tags
		}
		t.LastUpdateTime = m.LastUpdateTime
	} else if item.Notes != "" {
		log.WithField("task_id", item.Id).Debug("notes are not task metadata; ignoring")
	}
	if t.LastUpdateTime == 0 && item.Updated != "" {
		if updated, err := time.Parse(time.RFC3339, item.Updated); err == nil {
			t.LastUpdateTime = updated.UnixMilli()
		}
	}
	return t
}

func googleTime(t time.Time) *string {
	s := t.Format(time.RFC3339)
	return &s
}
