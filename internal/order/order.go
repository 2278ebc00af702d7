// Package order decides the render order of tasks and the row colors that
// go with each position.
//
// Every comparator ends with an ID tie-break, so for tasks with distinct IDs
// the order is total and repeated sorts of the same input agree.
package order

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"gtodo/internal/service"
)

// Comparator orders two tasks the way cmp.Compare does: negative when a
// renders before b.
type Comparator func(a, b service.Task) int

// Default is the comparator name used when none is configured.
const Default = "favorites"

var comparators = map[string]Comparator{
	"favorites": Favorites,
	"recent":    Recent,
	"name":      ByName,
	"id":        ByID,
}

// ByID orders tasks by ID.
func ByID(a, b service.Task) int {
	return cmp.Compare(a.ID, b.ID)
}

// Favorites puts favorite tasks first, then open tasks before done ones,
// then the most recently updated, then ID.
func Favorites(a, b service.Task) int {
	if c := boolFirst(a.HasTag(service.TagFavorite), b.HasTag(service.TagFavorite)); c != 0 {
		return c
	}
	if c := boolFirst(!a.IsDone, !b.IsDone); c != 0 {
		return c
	}
	return Recent(a, b)
}

// Recent orders by LastUpdateTime, newest first, then ID.
func Recent(a, b service.Task) int {
	if c := cmp.Compare(b.LastUpdateTime, a.LastUpdateTime); c != 0 {
		return c
	}
	return ByID(a, b)
}

// ByName orders case-insensitively by name, then ID.
func ByName(a, b service.Task) int {
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return ByID(a, b)
}

// boolFirst sorts true before false.
func boolFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

// Lookup returns the comparator registered under name.
// An empty name selects Default.
func Lookup(name string) (Comparator, error) {
	if name == "" {
		name = Default
	}
	c, ok := comparators[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown order: %s (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names returns the registered comparator names, sorted.
func Names() []string {
	names := make([]string, 0, len(comparators))
	for n := range comparators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Sort returns a sorted copy of tasks. The input slice is not modified.
// A nil comparator sorts with Favorites.
func Sort(tasks []service.Task, c Comparator) []service.Task {
	if c == nil {
		c = Favorites
	}
	out := make([]service.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	slices.SortStableFunc(out, c)
	return out
}
