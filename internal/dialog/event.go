package dialog

// EventKind enumerates inbound event categories from the presentation layer.
type EventKind string

const (
	EventMenuSelection   EventKind = "menu_selection"
	EventTextMessage     EventKind = "text_message"
	EventRatingSelection EventKind = "rating_selection"
)

// Menu selection identifiers.
const (
	MenuStart        = "start"
	MenuConnectHelp  = "connect_help"
	MenuNotWorking   = "not_working"
	MenuLogs         = "logs"
	MenuSubscription = "subscription"
	MenuIdeas        = "ideas"
	MenuServerInfo   = "rf_server"
	MenuAdminPanel   = "admin_panel"
	MenuDevice       = "device"
	MenuServer       = "server"
	MenuCountry      = "country"
	MenuResolved     = "resolved"
	MenuNotResolved  = "not_resolved"
)

// Event is one inbound user action.
type Event struct {
	Kind EventKind
	// Selection names the chosen menu item for menu events.
	Selection string
	// Value carries the chosen option for device/server/country selections.
	Value string
	// Text carries the body of free-text messages.
	Text string
	// Score carries the chosen rating for rating events.
	Score int
}

// MenuEvent builds a plain menu selection.
func MenuEvent(selection string) Event {
	return Event{Kind: EventMenuSelection, Selection: selection}
}

// ChoiceEvent builds a menu selection carrying an option value.
func ChoiceEvent(selection, value string) Event {
	return Event{Kind: EventMenuSelection, Selection: selection, Value: value}
}

// TextEvent builds a free-text message event.
func TextEvent(text string) Event {
	return Event{Kind: EventTextMessage, Text: text}
}

// RatingEvent builds a rating selection.
func RatingEvent(score int) Event {
	return Event{Kind: EventRatingSelection, Score: score}
}
