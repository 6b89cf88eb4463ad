package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fareleap/traveldeals/internal/engine"
	"github.com/fareleap/traveldeals/internal/places"
)

func TestActionRoundTrip(t *testing.T) {
	actions := []engine.Action{
		{Kind: engine.ActionSelectService, Service: places.ServiceFlights},
		{Kind: engine.ActionSelectService, Service: places.ServiceBuses},
		{Kind: engine.ActionSelectService, Service: "hotels"},
		{Kind: engine.ActionTripType, RoundTrip: false},
		{Kind: engine.ActionTripType, RoundTrip: true},
		{Kind: engine.ActionSelectOrigin, Point: places.Point{Code: "CPT", DisplayName: "Cape Town International"}},
		{Kind: engine.ActionSelectDest, Point: places.Point{Code: "JNB", DisplayName: "O.R. Tambo International"}},
		{Kind: engine.ActionSearchAgainOrigin},
		{Kind: engine.ActionSearchAgainDest},
		{Kind: engine.ActionLoadMore},
		{Kind: engine.ActionMainMenu},
		{Kind: engine.ActionHelp},
	}

	for _, a := range actions {
		data := EncodeAction(a)
		require.NotEmpty(t, data)
		got, ok := ParseAction(data)
		require.True(t, ok, "data %q should parse", data)
		assert.Equal(t, a, got)
	}
}

func TestParseActionMalformed(t *testing.T) {
	inputs := []string{
		"",
		"bogus",
		"bogus|x",
		"service",
		"service|",
		"trip|sideways",
		"origin",
		"origin||Cape Town",
		"again|nowhere",
		"more|extra",
		"menu|extra",
		"load_more:flights:3",
	}
	for _, data := range inputs {
		_, ok := ParseAction(data)
		assert.False(t, ok, "data %q must not parse", data)
	}
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	a := engine.Action{Kind: engine.ActionSelectOrigin, Point: places.Point{
		Code:        "PLZ",
		DisplayName: "Chief Dawid Stuurman International",
	}}
	assert.LessOrEqual(t, len(EncodeAction(a)), 64)
}
