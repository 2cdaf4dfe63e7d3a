package domain

import "strings"

// Answer holds a user's response to one question. It is a tagged union over
// Kind: exactly one of OptionID, OptionIDs, or Text is meaningful. The zero
// value of the variant fields means "not answered yet".
type Answer struct {
	Kind      Kind
	OptionID  string   // KindSingle: selected option, empty if none
	OptionIDs []string // KindMultiple: selected set, unordered, no duplicates
	Text      string   // KindText: free-form response
}

// EmptyAnswer returns the unanswered value for a question kind.
func EmptyAnswer(kind Kind) Answer {
	return Answer{Kind: kind}
}

// Answered reports whether the answer carries a non-empty response: a selected
// option, a non-empty option set, or a non-blank trimmed string.
func (a Answer) Answered() bool {
	switch a.Kind {
	case KindSingle:
		return a.OptionID != ""
	case KindMultiple:
		return len(a.OptionIDs) > 0
	case KindText:
		return strings.TrimSpace(a.Text) != ""
	}
	return false
}

// HasOption reports whether optionID is in the multiple-choice set.
func (a Answer) HasOption(optionID string) bool {
	for _, id := range a.OptionIDs {
		if id == optionID {
			return true
		}
	}
	return false
}

// WithOptionToggled returns a copy with optionID added if absent or removed if
// present. The receiver is not modified.
func (a Answer) WithOptionToggled(optionID string) Answer {
	next := Answer{Kind: a.Kind}
	for _, id := range a.OptionIDs {
		if id != optionID {
			next.OptionIDs = append(next.OptionIDs, id)
		}
	}
	if !a.HasOption(optionID) {
		next.OptionIDs = append(next.OptionIDs, optionID)
	}
	return next
}
