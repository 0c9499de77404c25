package activity

// Style selects the font style of a full-screen message.
type Style int

const (
	StyleRegular Style = iota
	StyleBold
	StyleItalic
)

func (s Style) String() string {
	switch s {
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	default:
		return "regular"
	}
}

// Intent carries the parameters for an activity that is about to be launched.
//
// Only plain values belong here. The launching activity may be torn down
// before the new one reads its intent, so an Intent must never hold a pointer
// or reference into the caller's state.
type Intent struct {
	Path         string // Book or directory path (library, reader)
	Message      string // Text for the full-screen message screen
	MessageStyle Style  // Font style for Message
}
