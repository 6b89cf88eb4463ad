package places

import (
	"context"
	"strings"
)

// Service identifies which booking vertical a search belongs to.
type Service string

const (
	ServiceFlights Service = "flights"
	ServiceBuses   Service = "buses"
)

// Point is a selectable trip endpoint: an airport or a bus terminal.
// For bus terminals Code carries the city name, which is what the bus
// offer source keys routes by.
type Point struct {
	Code        string
	DisplayName string
}

// Location is a resolved city candidate. A location with no Code and no
// SubPoints cannot be selected as a trip endpoint.
type Location struct {
	DisplayName string
	Country     string
	Code        string
	SubPoints   []Point
}

// Selectable reports whether the location can serve as a trip endpoint.
func (l Location) Selectable() bool {
	return l.Code != "" || len(l.SubPoints) > 0
}

// Resolver turns free-text queries into location candidates.
// Implementations must be pure lookups: no side effects, capped result count.
type Resolver interface {
	Search(ctx context.Context, query string, service Service) []Location
}

type airport struct {
	code string
	name string
}

type city struct {
	name      string
	country   string
	airports  []airport
	terminals []string
}

// Directory is a static in-memory resolver over Southern-African cities.
type Directory struct {
	cities     []city
	maxResults int
}

// NewDirectory returns the built-in city directory.
func NewDirectory() *Directory {
	return &Directory{cities: defaultCities, maxResults: 5}
}

// Search matches query case-insensitively against city name, country,
// airport codes and airport names. Results are capped at 5.
func (d *Directory) Search(_ context.Context, query string, service Service) []Location {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var results []Location
	for _, c := range d.cities {
		if !c.matches(q) {
			continue
		}
		results = append(results, c.toLocation(service))
		if len(results) == d.maxResults {
			break
		}
	}
	return results
}

func (c city) matches(q string) bool {
	if strings.Contains(strings.ToLower(c.name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(c.country), q) {
		return true
	}
	for _, a := range c.airports {
		if strings.Contains(strings.ToLower(a.code), q) {
			return true
		}
		if strings.Contains(strings.ToLower(a.name), q) {
			return true
		}
	}
	return false
}

func (c city) toLocation(service Service) Location {
	loc := Location{DisplayName: c.name, Country: c.country}
	switch service {
	case ServiceBuses:
		for _, t := range c.terminals {
			loc.SubPoints = append(loc.SubPoints, Point{Code: c.name, DisplayName: t})
		}
	default:
		for _, a := range c.airports {
			loc.SubPoints = append(loc.SubPoints, Point{Code: a.code, DisplayName: a.name})
		}
	}
	return loc
}

var defaultCities = []city{
	{
		name:    "Cape Town",
		country: "South Africa",
		airports: []airport{
			{code: "CPT", name: "Cape Town International"},
			{code: "HLE", name: "Cape Town Heliport"},
		},
		terminals: []string{"Cape Town Bus Terminal", "Bellville Station"},
	},
	{
		name:    "Johannesburg",
		country: "South Africa",
		airports: []airport{
			{code: "JNB", name: "O.R. Tambo International"},
			{code: "HLA", name: "Lanseria International"},
		},
		terminals: []string{"Park Station", "Rosebank Station", "Sandton Station"},
	},
	{
		name:    "Durban",
		country: "South Africa",
		airports: []airport{
			{code: "DUR", name: "King Shaka International"},
		},
		terminals: []string{"Durban Bus Station", "Berea Station"},
	},
	{
		name:      "Pretoria",
		country:   "South Africa",
		terminals: []string{"Pretoria Station", "Hatfield Station"},
	},
	{
		name:    "Port Elizabeth",
		country: "South Africa",
		airports: []airport{
			{code: "PLZ", name: "Chief Dawid Stuurman International"},
		},
		terminals: []string{"Gqeberha Bus Terminal"},
	},
	{
		name:    "Bloemfontein",
		country: "South Africa",
		airports: []airport{
			{code: "BFN", name: "Bram Fischer International"},
		},
		terminals: []string{"Bloemfontein Terminal"},
	},
	{
		name:    "Windhoek",
		country: "Namibia",
		airports: []airport{
			{code: "WDH", name: "Hosea Kutako International"},
		},
		terminals: []string{"Windhoek Bus Terminal"},
	},
	{
		name:    "Gaborone",
		country: "Botswana",
		airports: []airport{
			{code: "GBE", name: "Sir Seretse Khama International"},
		},
		terminals: []string{"Gaborone Bus Rank"},
	},
	{
		name:    "Maputo",
		country: "Mozambique",
		airports: []airport{
			{code: "MPM", name: "Maputo International"},
		},
		terminals: []string{"Maputo Bus Station"},
	},
}
