package engine

import "github.com/fareleap/traveldeals/internal/places"

// ActionKind enumerates the closed set of button actions the engine
// understands. The presentation-channel adapter is responsible for parsing
// wire payloads into these; anything it cannot parse is dropped before it
// reaches the engine.
type ActionKind int

const (
	// ActionSelectService picks a booking vertical from the main menu.
	ActionSelectService ActionKind = iota
	// ActionTripType picks one-way vs round-trip for flights.
	ActionTripType
	// ActionSelectOrigin and ActionSelectDest choose a resolved endpoint.
	ActionSelectOrigin
	ActionSelectDest
	// ActionSearchAgainOrigin / ActionSearchAgainDest re-enter the
	// corresponding free-text query step.
	ActionSearchAgainOrigin
	ActionSearchAgainDest
	// ActionLoadMore advances result pagination.
	ActionLoadMore
	// ActionMainMenu clears the session and returns to the menu.
	ActionMainMenu
	// ActionHelp shows usage information without touching the session.
	ActionHelp
)

// Action is one tagged button event. Only the fields relevant to Kind are
// set.
type Action struct {
	Kind      ActionKind
	Service   places.Service // ActionSelectService
	RoundTrip bool           // ActionTripType
	Point     places.Point   // ActionSelectOrigin / ActionSelectDest
}

// Button is a labeled action offered to the user. The adapter encodes the
// action into its transport's callback payload.
type Button struct {
	Label  string
	Action Action
}

// Reply is what the engine hands to the presentation channel: display text
// with optional buttons, or a transient notice that must not replace the
// current message.
type Reply struct {
	Text    string
	Buttons []Button
	Notice  string
}
