package telegram

import (
	"strings"

	"github.com/fareleap/traveldeals/internal/engine"
	"github.com/fareleap/traveldeals/internal/places"
)

// Callback payloads are "|"-separated tokens, kept short to fit Telegram's
// 64-byte callback_data limit. EncodeAction and ParseAction are the only
// places that know this format; the engine sees tagged actions only.

const sep = "|"

// EncodeAction serializes an engine action into callback data.
func EncodeAction(a engine.Action) string {
	switch a.Kind {
	case engine.ActionSelectService:
		return "service" + sep + string(a.Service)
	case engine.ActionTripType:
		if a.RoundTrip {
			return "trip" + sep + "return"
		}
		return "trip" + sep + "oneway"
	case engine.ActionSelectOrigin:
		return "origin" + sep + a.Point.Code + sep + a.Point.DisplayName
	case engine.ActionSelectDest:
		return "dest" + sep + a.Point.Code + sep + a.Point.DisplayName
	case engine.ActionSearchAgainOrigin:
		return "again" + sep + "origin"
	case engine.ActionSearchAgainDest:
		return "again" + sep + "dest"
	case engine.ActionLoadMore:
		return "more"
	case engine.ActionMainMenu:
		return "menu"
	case engine.ActionHelp:
		return "help"
	default:
		return ""
	}
}

// ParseAction decodes callback data into an engine action. Anything with an
// unexpected shape yields ok=false and must be dropped by the caller.
func ParseAction(data string) (engine.Action, bool) {
	parts := strings.SplitN(data, sep, 3)
	switch parts[0] {
	case "service":
		if len(parts) != 2 || parts[1] == "" {
			return engine.Action{}, false
		}
		return engine.Action{Kind: engine.ActionSelectService, Service: places.Service(parts[1])}, true

	case "trip":
		if len(parts) != 2 {
			return engine.Action{}, false
		}
		switch parts[1] {
		case "oneway":
			return engine.Action{Kind: engine.ActionTripType}, true
		case "return":
			return engine.Action{Kind: engine.ActionTripType, RoundTrip: true}, true
		}
		return engine.Action{}, false

	case "origin", "dest":
		if len(parts) != 3 || parts[1] == "" {
			return engine.Action{}, false
		}
		kind := engine.ActionSelectOrigin
		if parts[0] == "dest" {
			kind = engine.ActionSelectDest
		}
		return engine.Action{Kind: kind, Point: places.Point{Code: parts[1], DisplayName: parts[2]}}, true

	case "again":
		if len(parts) != 2 {
			return engine.Action{}, false
		}
		switch parts[1] {
		case "origin":
			return engine.Action{Kind: engine.ActionSearchAgainOrigin}, true
		case "dest":
			return engine.Action{Kind: engine.ActionSearchAgainDest}, true
		}
		return engine.Action{}, false

	case "more":
		if len(parts) != 1 {
			return engine.Action{}, false
		}
		return engine.Action{Kind: engine.ActionLoadMore}, true

	case "menu":
		if len(parts) != 1 {
			return engine.Action{}, false
		}
		return engine.Action{Kind: engine.ActionMainMenu}, true

	case "help":
		if len(parts) != 1 {
			return engine.Action{}, false
		}
		return engine.Action{Kind: engine.ActionHelp}, true
	}
	return engine.Action{}, false
}
