// Package domain holds tender domain rules shared by read paths.
package domain

import "strings"

// Status is a tender workflow status. The set is open: institutions attach
// their own labels, and only two of them drive behavior.
type Status string

const (
	// StatusInProgress marks a tender still being worked ("EN CURSO").
	StatusInProgress Status = "EN CURSO"
	// StatusQuoted marks a tender whose quotes were submitted ("COTIZADO").
	StatusQuoted Status = "COTIZADO"
)

// ParseStatus normalizes a raw status label. Unrecognized values pass
// through unchanged so archived labels keep their original text.
func ParseStatus(raw string) Status {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	switch normalized {
	case string(StatusInProgress):
		return StatusInProgress
	case string(StatusQuoted):
		return StatusQuoted
	default:
		return Status(strings.TrimSpace(raw))
	}
}

// WorkflowActive reports whether the tender should appear on purchasing
// screens. Only in-progress and quoted tenders qualify; every other label
// is treated as terminal or archived.
func (s Status) WorkflowActive() bool {
	return s == StatusInProgress || s == StatusQuoted
}

// WorkflowActiveStatuses returns the labels used by SQL IN clauses on
// tender-level filters.
func WorkflowActiveStatuses() []string {
	return []string{string(StatusInProgress), string(StatusQuoted)}
}
