package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fareleap/traveldeals/internal/cache"
	"github.com/fareleap/traveldeals/internal/format"
	"github.com/fareleap/traveldeals/internal/observability/metrics"
	"github.com/fareleap/traveldeals/internal/offers"
	"github.com/fareleap/traveldeals/internal/places"
	"github.com/fareleap/traveldeals/pkg/logging"
)

const dateLayout = "2006-01-02"

// Config wires the engine's collaborators.
type Config struct {
	Sessions SessionStore
	Resolver places.Resolver

	FlightSource offers.Source
	BusSource    offers.Source
	FlightCache  cache.Store
	BusCache     cache.Store
	FlightTTL    time.Duration
	BusTTL       time.Duration

	Currency   string
	OfferLimit int
	PageSize   int

	Logger  *logging.Logger
	Metrics *metrics.BotMetrics
}

// Engine drives the per-user booking dialogue. It assumes the host adapter
// serializes event delivery per user; cross-user calls may run in parallel.
type Engine struct {
	sessions SessionStore
	resolver places.Resolver

	flightSource offers.Source
	busSource    offers.Source
	flightCache  cache.Store
	busCache     cache.Store
	flightTTL    time.Duration
	busTTL       time.Duration

	currency   string
	offerLimit int
	pageSize   int

	logger  *logging.Logger
	metrics *metrics.BotMetrics
	now     func() time.Time
}

// New creates an engine with sane defaults for anything left unset.
func New(cfg Config) *Engine {
	e := &Engine{
		sessions:     cfg.Sessions,
		resolver:     cfg.Resolver,
		flightSource: cfg.FlightSource,
		busSource:    cfg.BusSource,
		flightCache:  cfg.FlightCache,
		busCache:     cfg.BusCache,
		flightTTL:    cfg.FlightTTL,
		busTTL:       cfg.BusTTL,
		currency:     cfg.Currency,
		offerLimit:   cfg.OfferLimit,
		pageSize:     cfg.PageSize,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		now:          time.Now,
	}
	if e.sessions == nil {
		e.sessions = NewInMemorySessionStore()
	}
	if e.flightTTL <= 0 {
		e.flightTTL = 15 * time.Minute
	}
	if e.busTTL <= 0 {
		e.busTTL = 30 * time.Minute
	}
	if e.currency == "" {
		e.currency = "USD"
	}
	if e.offerLimit <= 0 {
		e.offerLimit = 20
	}
	if e.pageSize <= 0 {
		e.pageSize = 3
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}
	return e
}

// Start clears any existing session and shows the main menu. It backs both
// first contact and the restart command.
func (e *Engine) Start(_ context.Context, userID int64) *Reply {
	e.sessions.Delete(userID)
	e.sessions.Put(userID, &Session{State: StateMenu})
	return menuReply()
}

// Help is stateless usage information.
func (e *Engine) Help(_ context.Context, _ int64) *Reply {
	return &Reply{
		Text: "*📚 HOW TO USE*\n\n" +
			"1. Select a service (Flights or Buses)\n" +
			"2. Follow the step-by-step prompts\n" +
			"3. Get real-time prices with booking links\n\n" +
			"*💡 TIPS*\n" +
			"• Type city names naturally, or airport codes like CPT\n" +
			"• Dates accept 20 Jan, 2024-01-20 or tomorrow\n" +
			"• Tap Load 3 More to page through results\n\n" +
			"Use /start anytime to restart.",
		Buttons: []Button{
			{Label: "✈️ Book Flights", Action: Action{Kind: ActionSelectService, Service: places.ServiceFlights}},
			{Label: "🚌 Book Buses", Action: Action{Kind: ActionSelectService, Service: places.ServiceBuses}},
			{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
		},
	}
}

// HandleText processes a free-text message according to the current state.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) *Reply {
	s := e.session(userID)

	switch s.State {
	case StateOriginQuery, StateOriginSelect:
		return e.resolveEndpoint(ctx, userID, s, text, true)
	case StateDestQuery, StateDestSelect:
		return e.resolveEndpoint(ctx, userID, s, text, false)
	case StateDepartDate:
		return e.handleDepartDate(ctx, userID, s, text)
	case StateReturnDate:
		return e.handleReturnDate(ctx, userID, s, text)
	default:
		return &Reply{
			Text: "Please use the buttons below, or /start to begin a new search.",
			Buttons: []Button{
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}
	}
}

// HandleAction processes a button selection. Actions that do not fit the
// current state are ignored and return nil.
func (e *Engine) HandleAction(ctx context.Context, userID int64, a Action) *Reply {
	// Menu and help are reachable from every state.
	switch a.Kind {
	case ActionMainMenu:
		return e.Start(ctx, userID)
	case ActionHelp:
		return e.Help(ctx, userID)
	}

	s := e.session(userID)

	switch a.Kind {
	case ActionSelectService:
		return e.selectService(userID, s, a.Service)

	case ActionTripType:
		if s.State != StateTripType {
			return nil
		}
		s.TripType = TripOneWay
		if a.RoundTrip {
			s.TripType = TripRoundTrip
		}
		s.State = StateOriginQuery
		e.sessions.Put(userID, s)
		return originPrompt()

	case ActionSelectOrigin:
		if s.State != StateOriginSelect || a.Point.Code == "" {
			return nil
		}
		s.Origin = a.Point
		s.State = StateDestQuery
		e.sessions.Put(userID, s)
		return &Reply{
			Text: fmt.Sprintf("✅ Departure: %s (%s)\n\n", a.Point.DisplayName, a.Point.Code) +
				"📍 *DESTINATION CITY*\n\nType destination city (e.g., Johannesburg):",
			Buttons: []Button{
				{Label: "🔍 Search Again", Action: Action{Kind: ActionSearchAgainOrigin}},
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}

	case ActionSelectDest:
		if s.State != StateDestSelect || a.Point.Code == "" {
			return nil
		}
		s.Destination = a.Point
		s.State = StateDepartDate
		e.sessions.Put(userID, s)
		return &Reply{
			Text: fmt.Sprintf("✅ Route: %s (%s) → %s (%s)\n\n",
				s.Origin.DisplayName, s.Origin.Code, a.Point.DisplayName, a.Point.Code) +
				"📅 *DEPARTURE DATE*\n\nEnter departure date:\n_Formats: 20 Jan, 2024-01-20, tomorrow_",
			Buttons: []Button{
				{Label: "🔍 Search Again", Action: Action{Kind: ActionSearchAgainDest}},
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}

	case ActionSearchAgainOrigin:
		s.State = StateOriginQuery
		e.sessions.Put(userID, s)
		return &Reply{Text: "Type departure city again:"}

	case ActionSearchAgainDest:
		s.State = StateDestQuery
		e.sessions.Put(userID, s)
		return &Reply{Text: "Type destination city again:"}

	case ActionLoadMore:
		return e.loadMore(userID, s)
	}

	return nil
}

func (e *Engine) session(userID int64) *Session {
	if s, ok := e.sessions.Get(userID); ok {
		return s
	}
	s := &Session{State: StateMenu}
	e.sessions.Put(userID, s)
	return s
}

func (e *Engine) selectService(userID int64, s *Session, service places.Service) *Reply {
	switch service {
	case places.ServiceFlights:
		s.reset()
		s.Service = places.ServiceFlights
		s.State = StateTripType
		e.sessions.Put(userID, s)
		return &Reply{
			Text: "✈️ *FLIGHT BOOKING*\n\nSelect flight type:",
			Buttons: []Button{
				{Label: "🛫 One Way", Action: Action{Kind: ActionTripType, RoundTrip: false}},
				{Label: "🔄 Return", Action: Action{Kind: ActionTripType, RoundTrip: true}},
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}

	case places.ServiceBuses:
		s.reset()
		s.Service = places.ServiceBuses
		s.State = StateOriginQuery
		e.sessions.Put(userID, s)
		return &Reply{
			Text: "🚌 *BUS BOOKING*\n\n📍 Enter departure city (e.g., Cape Town):",
			Buttons: []Button{
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}

	default:
		// Hotels, cruises and anything the adapter lets through stay on
		// the menu with a coming-soon notice.
		return &Reply{
			Text: "🛠️ *Coming Soon!*\n\nThis service is under development.\nTry our flight or bus booking instead!",
			Buttons: []Button{
				{Label: "✈️ Flights", Action: Action{Kind: ActionSelectService, Service: places.ServiceFlights}},
				{Label: "🚌 Buses", Action: Action{Kind: ActionSelectService, Service: places.ServiceBuses}},
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}
	}
}

func (s *Session) reset() {
	*s = Session{State: StateMenu}
}

// resolveEndpoint handles the free-text city step for either endpoint and
// presents the selectable candidates.
func (e *Engine) resolveEndpoint(ctx context.Context, userID int64, s *Session, query string, isOrigin bool) *Reply {
	locations := e.resolver.Search(ctx, query, s.Service)
	if len(locations) == 0 {
		return &Reply{
			Text: "❌ City not found. Please try again:\n" +
				"• Cape Town\n• Johannesburg\n• Durban\n• Or an airport code (CPT, JNB, DUR)",
			Buttons: []Button{
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}
	}

	selectKind := ActionSelectOrigin
	againKind := ActionSearchAgainOrigin
	prompt := "Select departure point:"
	if !isOrigin {
		selectKind = ActionSelectDest
		againKind = ActionSearchAgainDest
		prompt = "Select destination point:"
	}

	var buttons []Button
	for _, loc := range locations {
		if !loc.Selectable() {
			continue
		}
		points := loc.SubPoints
		if len(points) > 2 {
			points = points[:2]
		}
		for _, p := range points {
			label := fmt.Sprintf("✈️ %s (%s)", p.DisplayName, p.Code)
			if s.Service == places.ServiceBuses {
				label = "🚌 " + p.DisplayName
			}
			buttons = append(buttons, Button{
				Label:  label,
				Action: Action{Kind: selectKind, Point: p},
			})
		}
	}
	if len(buttons) == 0 {
		return &Reply{
			Text: "❌ No bookable airports or terminals there. Try a bigger city nearby:",
			Buttons: []Button{
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}
	}
	buttons = append(buttons, Button{Label: "🔍 Search Again", Action: Action{Kind: againKind}})

	if isOrigin {
		s.State = StateOriginSelect
	} else {
		s.State = StateDestSelect
	}
	e.sessions.Put(userID, s)

	return &Reply{
		Text:    fmt.Sprintf("🔍 Found %d location(s):\n%s", len(locations), prompt),
		Buttons: buttons,
	}
}

func (e *Engine) handleDepartDate(ctx context.Context, userID int64, s *Session, text string) *Reply {
	date, ok := ParseDate(text, e.now())
	if !ok {
		return invalidDateReply()
	}

	s.DepartDate = date
	if s.TripType == TripRoundTrip {
		s.State = StateReturnDate
		e.sessions.Put(userID, s)
		return &Reply{
			Text: fmt.Sprintf("✅ Departure: %s\n\n📅 *RETURN DATE*\n\nEnter return date:", date.Format(dateLayout)),
			Buttons: []Button{
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}
	}
	e.sessions.Put(userID, s)
	return e.showResults(ctx, userID, s)
}

func (e *Engine) handleReturnDate(ctx context.Context, userID int64, s *Session, text string) *Reply {
	date, ok := ParseDate(text, e.now())
	if !ok {
		return invalidDateReply()
	}
	if !date.After(s.DepartDate) {
		return &Reply{
			Text: "❌ Return date must be after the departure date. Please enter a later date:",
			Buttons: []Button{
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}
	}

	s.ReturnDate = date
	e.sessions.Put(userID, s)
	return e.showResults(ctx, userID, s)
}

// showResults is the entry action of the results step: consult the cache,
// fall back to the offer source, render page zero and drop to idle.
func (e *Engine) showResults(ctx context.Context, userID int64, s *Session) *Reply {
	service := string(s.Service)
	searchID := uuid.NewString()

	key := cache.Key(service, map[string]string{
		"origin":      s.Origin.Code,
		"destination": s.Destination.Code,
		"depart":      s.DepartDate.Format(dateLayout),
		"return":      formatReturn(s.ReturnDate),
		"currency":    e.currency,
	})

	store, source, ttl := e.flightCache, e.flightSource, e.flightTTL
	if s.Service == places.ServiceBuses {
		store, source, ttl = e.busCache, e.busSource, e.busTTL
	}

	result, hit := e.cacheGet(ctx, store, key)
	e.metrics.ObserveCache(service, hit)
	if !hit {
		started := e.now()
		fetched, err := source.Search(ctx, offers.Query{
			OriginCode: s.Origin.Code,
			DestCode:   s.Destination.Code,
			Depart:     s.DepartDate,
			Return:     s.ReturnDate,
			Currency:   e.currency,
			Limit:      e.offerLimit,
		})
		e.metrics.ObserveSearchLatency(service, e.now().Sub(started).Seconds())
		if err != nil {
			e.metrics.ObserveSearch(service, "error")
			e.logger.Error("engine: offer search failed",
				"search_id", searchID,
				"service", service,
				"origin", s.Origin.Code,
				"destination", s.Destination.Code,
				"error", err,
			)
			// The session keeps its fields; only the state drops to idle
			// so the user can retry.
			s.State = StateIdle
			e.sessions.Put(userID, s)
			return &Reply{
				Text: "⚠️ *Temporary Issue*\n\n" +
					"We're experiencing high demand. Please try again in a moment or start a new search.",
				Buttons: []Button{
					{Label: "🔍 New Search", Action: Action{Kind: ActionSelectService, Service: s.Service}},
					{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
				},
			}
		}
		e.metrics.ObserveSearch(service, "ok")
		result = fetched
		if store != nil {
			store.Put(ctx, key, result, ttl)
		}
	}

	e.logger.Info("engine: search complete",
		"search_id", searchID,
		"service", service,
		"origin", s.Origin.Code,
		"destination", s.Destination.Code,
		"offers", len(result),
		"cache_hit", hit,
	)

	s.Results = result
	s.Cursor = 0
	s.State = StateIdle
	e.sessions.Put(userID, s)

	if len(result) == 0 {
		return &Reply{
			Text: "❌ No offers found for your search.\n\n" +
				"*Try:*\n• Different dates\n• Nearby airports\n• Flexible travel dates",
			Buttons: []Button{
				{Label: "🔍 New Search", Action: Action{Kind: ActionSelectService, Service: s.Service}},
				{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
			},
		}
	}

	page := result
	if len(page) > e.pageSize {
		page = page[:e.pageSize]
	}
	text := format.Page(page, 1) + "\n\n" + format.Stats(page, len(result))

	buttons := []Button{}
	if len(result) > e.pageSize {
		buttons = append(buttons, Button{Label: fmt.Sprintf("📥 Load %d More", e.pageSize), Action: Action{Kind: ActionLoadMore}})
	}
	buttons = append(buttons,
		Button{Label: "🔍 New Search", Action: Action{Kind: ActionSelectService, Service: s.Service}},
		Button{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
	)
	return &Reply{Text: text, Buttons: buttons}
}

// loadMore advances pagination from the idle state. Requests beyond the
// result set never move the cursor.
func (e *Engine) loadMore(userID int64, s *Session) *Reply {
	if s.State != StateIdle || len(s.Results) == 0 {
		return nil
	}

	next := s.Cursor + e.pageSize
	if next >= len(s.Results) {
		return &Reply{Notice: "No more results to show"}
	}

	s.Cursor = next
	e.sessions.Put(userID, s)

	end := next + e.pageSize
	if end > len(s.Results) {
		end = len(s.Results)
	}
	text := format.Page(s.Results[next:end], next+1)

	buttons := []Button{}
	if end < len(s.Results) {
		buttons = append(buttons, Button{Label: fmt.Sprintf("📥 Load %d More", e.pageSize), Action: Action{Kind: ActionLoadMore}})
	}
	buttons = append(buttons,
		Button{Label: "🔍 New Search", Action: Action{Kind: ActionSelectService, Service: s.Service}},
		Button{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
	)
	return &Reply{Text: text, Buttons: buttons}
}

func (e *Engine) cacheGet(ctx context.Context, store cache.Store, key string) ([]offers.Offer, bool) {
	if store == nil {
		return nil, false
	}
	return store.Get(ctx, key)
}

func formatReturn(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func originPrompt() *Reply {
	return &Reply{
		Text: "📍 *DEPARTURE CITY*\n\nType departure city (e.g., Cape Town):",
		Buttons: []Button{
			{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
		},
	}
}

func invalidDateReply() *Reply {
	return &Reply{
		Text: "❌ Invalid date. Please use formats like:\n• 20 Jan\n• 2024-01-20\n• tomorrow",
		Buttons: []Button{
			{Label: "🏠 Main Menu", Action: Action{Kind: ActionMainMenu}},
		},
	}
}

func menuReply() *Reply {
	return &Reply{
		Text: "🌟 *Travel Deals Bot*\n\n" +
			"Book flights and buses with affiliate deals!\n" +
			"Choose a service to begin:",
		Buttons: []Button{
			{Label: "✈️ Flights", Action: Action{Kind: ActionSelectService, Service: places.ServiceFlights}},
			{Label: "🚌 Buses", Action: Action{Kind: ActionSelectService, Service: places.ServiceBuses}},
			{Label: "🏨 Hotels", Action: Action{Kind: ActionSelectService, Service: "hotels"}},
			{Label: "🚢 Cruises", Action: Action{Kind: ActionSelectService, Service: "cruises"}},
			{Label: "ℹ️ Help", Action: Action{Kind: ActionHelp}},
		},
	}
}
