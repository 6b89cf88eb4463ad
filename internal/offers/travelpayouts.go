package offers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fareleap/traveldeals/pkg/logging"
)

const (
	defaultBaseURL = "https://api.travelpayouts.com"
	dateLayout     = "2006-01-02"
)

// TravelPayoutsConfig controls the flight offer source.
type TravelPayoutsConfig struct {
	BaseURL    string
	Token      string
	Marker     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	Tracer     trace.Tracer
}

// TravelPayoutsSource searches flights via the TravelPayouts prices API.
// Without an API token it serves a small set of demo offers so the bot
// stays usable in development.
type TravelPayoutsSource struct {
	baseURL    string
	token      string
	marker     string
	httpClient *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
}

// NewTravelPayoutsSource creates a configured flight source with sane defaults.
func NewTravelPayoutsSource(cfg TravelPayoutsConfig) *TravelPayoutsSource {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("traveldeals.internal.offers.travelpayouts")
	}
	return &TravelPayoutsSource{
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		marker:     strings.TrimSpace(cfg.Marker),
		httpClient: httpClient,
		logger:     logger,
		tracer:     tracer,
	}
}

type pricesResponse struct {
	Data []struct {
		Airline      string `json:"airline"`
		FlightNumber string `json:"flight_number"`
		Price        float64 `json:"price"`
		DepartureAt  string `json:"departure_at"`
		ReturnAt     string `json:"return_at"`
		Duration     int    `json:"duration"`
		Transfers    int    `json:"transfers"`
		Link         string `json:"link"`
	} `json:"data"`
	Currency string `json:"currency"`
}

// Search queries the prices-for-dates endpoint and maps the payload into
// offers with affiliate deep-links.
func (s *TravelPayoutsSource) Search(ctx context.Context, q Query) ([]Offer, error) {
	ctx, span := s.tracer.Start(ctx, "offers.search_flights")
	defer span.End()

	if s.token == "" {
		s.logger.Info("travelpayouts: no API token configured, serving demo offers",
			"origin", q.OriginCode,
			"destination", q.DestCode,
		)
		return s.demoOffers(q), nil
	}

	endpoint, err := s.buildURL(q)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("offers: failed to build flight request: %w", err)
	}
	req.Header.Set("X-Access-Token", s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("offers: flight search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("offers: flight search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		span.RecordError(err)
		return nil, err
	}

	var payload pricesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("offers: failed to decode flight response: %w", err)
	}

	result := make([]Offer, 0, len(payload.Data))
	for _, d := range payload.Data {
		offer := Offer{
			Provider:        d.Airline,
			ID:              d.FlightNumber,
			Price:           d.Price,
			Currency:        strings.ToUpper(payload.Currency),
			DurationMinutes: d.Duration,
			Stops:           d.Transfers,
			AffiliateLink:   s.affiliateLink(d.Link),
		}
		if offer.Currency == "" {
			offer.Currency = strings.ToUpper(q.Currency)
		}
		if ts, err := time.Parse(time.RFC3339, d.DepartureAt); err == nil {
			offer.DepartAt = ts
		}
		if d.ReturnAt != "" {
			if ts, err := time.Parse(time.RFC3339, d.ReturnAt); err == nil {
				offer.ReturnAt = &ts
			}
		}
		result = append(result, offer)
	}
	return result, nil
}

func (s *TravelPayoutsSource) buildURL(q Query) (string, error) {
	u, err := url.Parse(s.baseURL + "/aviasales/v3/prices_for_dates")
	if err != nil {
		return "", fmt.Errorf("offers: invalid travelpayouts base URL: %w", err)
	}
	params := url.Values{}
	params.Set("origin", q.OriginCode)
	params.Set("destination", q.DestCode)
	params.Set("departure_at", q.Depart.Format(dateLayout))
	if !q.Return.IsZero() {
		params.Set("return_at", q.Return.Format(dateLayout))
	}
	params.Set("currency", strings.ToLower(q.Currency))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("sorting", "price")
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// affiliateLink turns a provider-relative search link into an affiliate
// deep-link. Without a configured marker there is no commission tracking,
// so the unconfigured sentinel is returned instead of a plain link.
func (s *TravelPayoutsSource) affiliateLink(link string) string {
	if s.marker == "" {
		return LinkUnconfigured
	}
	if link == "" {
		return LinkUnconfigured
	}
	sep := "?"
	if strings.Contains(link, "?") {
		sep = "&"
	}
	return "https://www.aviasales.com" + link + sep + "marker=" + url.QueryEscape(s.marker)
}

func (s *TravelPayoutsSource) demoLink(q Query) string {
	if s.marker == "" {
		return LinkUnconfigured
	}
	link := fmt.Sprintf("https://www.travelstart.co.za/flights/%s/%s/%s",
		q.OriginCode, q.DestCode, q.Depart.Format(dateLayout))
	if !q.Return.IsZero() {
		link += "/" + q.Return.Format(dateLayout)
	}
	return link + "?aff=" + url.QueryEscape(s.marker)
}

func (s *TravelPayoutsSource) demoOffers(q Query) []Offer {
	at := func(hour, min int) time.Time {
		d := q.Depart
		return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
	}
	link := s.demoLink(q)

	result := []Offer{
		{Provider: "SA Airlink", ID: "4Z101", Price: 2450, Currency: "ZAR", DepartAt: at(8, 30), DurationMinutes: 125, Stops: 0, AffiliateLink: link},
		{Provider: "FlySafair", ID: "FA201", Price: 2100, Currency: "ZAR", DepartAt: at(14, 15), DurationMinutes: 135, Stops: 0, AffiliateLink: link},
		{Provider: "British Airways", ID: "BA123", Price: 185, Currency: "USD", DepartAt: at(22, 45), DurationMinutes: 720, Stops: 1, AffiliateLink: link},
	}
	if !q.Return.IsZero() {
		r := q.Return
		back := time.Date(r.Year(), r.Month(), r.Day(), 6, 45, 0, 0, time.UTC)
		result = append(result, Offer{
			Provider: "Emirates", ID: "EK765", Price: 420, Currency: "USD",
			DepartAt: at(18, 20), ReturnAt: &back,
			DurationMinutes: 840, Stops: 1, AffiliateLink: link,
		})
	}
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result
}
