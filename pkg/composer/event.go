package composer

import "fmt"

// EventKind identifies what the host should do with an Event.
type EventKind int

const (
	// EventSearchBegan fires when search mode opens.
	EventSearchBegan EventKind = iota
	// EventSearchEnded fires when search mode closes.
	EventSearchEnded
	// EventQueryChanged carries the trimmed live query; empty clears results.
	EventQueryChanged
	// EventSubmit carries the draft to store.
	EventSubmit
	// EventPhotoPicker asks the host to show the photo picker.
	EventPhotoPicker
)

func (k EventKind) String() string {
	switch k {
	case EventSearchBegan:
		return "search-began"
	case EventSearchEnded:
		return "search-ended"
	case EventQueryChanged:
		return "query-changed"
	case EventSubmit:
		return "submit"
	case EventPhotoPicker:
		return "photo-picker"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a notification emitted by a transition.
type Event struct {
	Kind  EventKind
	Query string
	Text  string
}

// Describe renders the event for the debug log.
func (e Event) Describe() string {
	switch e.Kind {
	case EventQueryChanged:
		return fmt.Sprintf(`kind:%q query:%q`, e.Kind, e.Query)
	case EventSubmit:
		return fmt.Sprintf(`kind:%q text:%q`, e.Kind, e.Text)
	default:
		return fmt.Sprintf(`kind:%q`, e.Kind)
	}
}
