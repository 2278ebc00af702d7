package tasklist

import (
	"slices"
	"time"

	"gtodo/internal/service"
)

// withName renames t, stamps it and marks it updated. The updated tag is
// added at most once.
func withName(t service.Task, name string, now time.Time) service.Task {
	t = t.Clone()
	t.Name = name
	t.LastUpdateTime = now.UnixMilli()
	if !t.HasTag(service.TagUpdated) {
		t.Tags = append(t.Tags, service.TagUpdated)
	}
	return t
}

// withFavoriteToggled removes every favorite tag if present, or appends one.
func withFavoriteToggled(t service.Task) service.Task {
	t = t.Clone()
	if t.HasTag(service.TagFavorite) {
		t.Tags = slices.DeleteFunc(t.Tags, func(tag string) bool { return tag == service.TagFavorite })
		return t
	}
	t.Tags = append(t.Tags, service.TagFavorite)
	return t
}

func withDone(t service.Task, done bool, now time.Time) service.Task {
	t = t.Clone()
	t.IsDone = done
	t.LastUpdateTime = now.UnixMilli()
	return t
}
