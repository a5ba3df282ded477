// internal/history/history.go
//
// Prior review activity shown on the History tab. Entries come from the
// platform today as fixed sample data; the type taxonomy and its style
// table are the part the rest of the app depends on.

package history

import "strings"

// EntryType classifies a history entry.
type EntryType string

const (
	TypeApproval EntryType = "approval"
	TypeRevision EntryType = "revision"
	TypeComment  EntryType = "comment"
)

// Entry is one piece of prior review feedback.
type Entry struct {
	ID      int
	User    string
	Type    EntryType
	Date    string
	Comment string
}

// Style is how an entry type badge renders.
type Style struct {
	Label string
	Color string
}

var typeStyles = map[EntryType]Style{
	TypeApproval: {Label: "approval", Color: "#4CAF50"},
	TypeRevision: {Label: "revision", Color: "#F7B801"},
	TypeComment:  {Label: "comment", Color: "#888888"},
}

var neutralStyle = Style{Label: "note", Color: "#999999"}

// StyleFor resolves an entry type to its badge style; unrecognized types
// get the neutral default.
func StyleFor(t EntryType) Style {
	if style, ok := typeStyles[t]; ok {
		return style
	}
	return neutralStyle
}

// Initials derives the avatar initials from a user's display name.
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		runes := []rune(part)
		if len(runes) > 0 {
			b.WriteRune(runes[0])
		}
	}
	return strings.ToUpper(b.String())
}

// SampleEntries returns the review history bundled with the demo
// artifact.
func SampleEntries() []Entry {
	return []Entry{
		{
			ID:      1,
			User:    "Sarah Chen",
			Type:    TypeRevision,
			Date:    "8/2/2025, 9:27:56 AM",
			Comment: "Please add more edge cases for password validation. The current test cases miss scenarios for special characters and length requirements.",
		},
		{
			ID:      2,
			User:    "Michael Rodriguez",
			Type:    TypeApproval,
			Date:    "8/2/2025, 8:57:56 AM",
			Comment: "Great work on the user registration flows. The test coverage looks comprehensive.",
		},
		{
			ID:      3,
			User:    "Sarah Chen",
			Type:    TypeComment,
			Date:    "8/2/2025, 7:57:56 AM",
			Comment: "Consider adding performance test cases for high-load scenarios.",
		},
	}
}
