package offers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusSearch(t *testing.T) {
	src := NewBusLinesSource("aff-123")

	q := Query{
		OriginCode: "Cape Town",
		DestCode:   "Johannesburg",
		Depart:     time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
		Currency:   "ZAR",
		Limit:      20,
	}
	got, err := src.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 4)

	for _, o := range got {
		assert.GreaterOrEqual(t, o.Price, 0.0)
		assert.Equal(t, "ZAR", o.Currency)
		assert.Equal(t, 20, o.DepartAt.Day())
		assert.True(t, strings.HasPrefix(o.AffiliateLink, "https://"), "link: %s", o.AffiliateLink)
		assert.Contains(t, o.AffiliateLink, "aff=aff-123")
		assert.Contains(t, o.AffiliateLink, "from=Cape+Town")
	}
}

func TestBusSearchLimit(t *testing.T) {
	src := NewBusLinesSource("aff-123")

	q := Query{OriginCode: "Durban", DestCode: "Pretoria", Depart: time.Now(), Limit: 2}
	got, err := src.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestBusSearchUnconfiguredMarker(t *testing.T) {
	src := NewBusLinesSource("")

	q := Query{OriginCode: "Durban", DestCode: "Pretoria", Depart: time.Now(), Limit: 10}
	got, err := src.Search(context.Background(), q)
	require.NoError(t, err)
	for _, o := range got {
		assert.Equal(t, LinkUnconfigured, o.AffiliateLink)
	}
}
