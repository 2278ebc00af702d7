package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"gtodo/internal/service"
	"gtodo/internal/tasklist"
)

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrBadTaskRef is wrapped by every malformed or out-of-range reference.
	ErrBadTaskRef = errors.New("invalid task reference")
)

// ParseTaskRef parses the 1-based row number that `gtodo list` prints.
func ParseTaskRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}
	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("%w: %s", ErrBadTaskRef, ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadTaskRef, ref)
	}
	return num, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// findTaskByNumber returns the task shown at row num (1-based) of snap.
func findTaskByNumber(snap tasklist.Snapshot, num int) (service.Task, error) {
	if num < 1 || num > len(snap.Tasks) {
		return service.Task{}, fmt.Errorf("%w: task number out of range: %d", ErrBadTaskRef, num)
	}
	return snap.Tasks[num-1], nil
}
