package commands

import (
	"errors"
	"testing"

	"gtodo/internal/service"
	"gtodo/internal/tasklist"
)

func TestParseTaskRef(t *testing.T) {
	num, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 5 {
		t.Errorf("expected 5, got %d", num)
	}
}

func TestParseTaskRef_Required(t *testing.T) {
	if _, err := ParseTaskRef(nil); err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_Invalid(t *testing.T) {
	for _, ref := range []string{"a1", "-1", "1.5", "", "x"} {
		_, err := ParseTaskRef([]string{ref})
		if !errors.Is(err, ErrBadTaskRef) {
			t.Errorf("ParseTaskRef(%q): expected ErrBadTaskRef, got %v", ref, err)
		}
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"123", true},
		{"0", true},
		{"", false},
		{"12a", false},
		{" 1", false},
	}
	for _, tt := range tests {
		if got := isAllDigits(tt.input); got != tt.expected {
			t.Errorf("isAllDigits(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestFindTaskByNumber(t *testing.T) {
	snap := tasklist.Snapshot{Tasks: []service.Task{{ID: "b"}, {ID: "a"}}}

	task, err := findTaskByNumber(snap, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "a" {
		t.Errorf("expected task %q, got %q", "a", task.ID)
	}

	for _, num := range []int{0, 3} {
		if _, err := findTaskByNumber(snap, num); !errors.Is(err, ErrBadTaskRef) {
			t.Errorf("findTaskByNumber(%d): expected ErrBadTaskRef, got %v", num, err)
		}
	}
}
