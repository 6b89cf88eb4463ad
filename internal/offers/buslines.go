package offers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BusLinesSource serves intercity bus routes for Southern Africa. Route
// inventory is static; only price lookups vary by date.
type BusLinesSource struct {
	marker string
}

// NewBusLinesSource creates the bus offer source. marker is the affiliate
// identifier embedded in booking links; empty means unconfigured.
func NewBusLinesSource(marker string) *BusLinesSource {
	return &BusLinesSource{marker: strings.TrimSpace(marker)}
}

type busRoute struct {
	operator string
	departs  int // hour of day
	minutes  int
	price    float64
	class    string
	linkBase string
}

var busRoutes = []busRoute{
	{operator: "Intercape", departs: 8, minutes: 390, price: 450, class: "Luxury", linkBase: "https://www.intercape.co.za/book"},
	{operator: "Greyhound", departs: 10, minutes: 405, price: 420, class: "Standard", linkBase: "https://greyhound.co.za/booking"},
	{operator: "Citiliner", departs: 13, minutes: 440, price: 380, class: "Economy", linkBase: "https://www.citiliner.co.za/reserve"},
	{operator: "Eldo Coaches", departs: 17, minutes: 420, price: 405, class: "Semi-Luxury", linkBase: "https://www.eldocoaches.co.za/book"},
}

// Search returns bus offers between two cities on the travel date.
func (s *BusLinesSource) Search(_ context.Context, q Query) ([]Offer, error) {
	result := make([]Offer, 0, len(busRoutes))
	for i, r := range busRoutes {
		d := q.Depart
		offer := Offer{
			Provider:        r.operator,
			ID:              fmt.Sprintf("%s-%d", strings.ToLower(strings.Fields(r.operator)[0]), i+1),
			Price:           r.price,
			Currency:        "ZAR",
			DepartAt:        time.Date(d.Year(), d.Month(), d.Day(), r.departs, 0, 0, 0, time.UTC),
			DurationMinutes: r.minutes,
			Stops:           0,
			AffiliateLink:   s.bookingLink(r.linkBase, q),
		}
		result = append(result, offer)
	}
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

func (s *BusLinesSource) bookingLink(base string, q Query) string {
	if s.marker == "" {
		return LinkUnconfigured
	}
	params := url.Values{}
	params.Set("from", q.OriginCode)
	params.Set("to", q.DestCode)
	params.Set("date", q.Depart.Format(dateLayout))
	params.Set("aff", s.marker)
	return base + "?" + params.Encode()
}
