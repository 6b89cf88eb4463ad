// Package format renders offer pages as Telegram-flavoured Markdown.
// Everything here is a pure function of its inputs.
package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/fareleap/traveldeals/internal/offers"
)

var printer = message.NewPrinter(language.English)

const timeLayout = "2006-01-02 15:04"

// Page renders one page of offers, numbered from startNum.
func Page(offs []offers.Offer, startNum int) string {
	if len(offs) == 0 {
		return "No offers found."
	}

	var b strings.Builder
	for i, o := range offs {
		fmt.Fprintf(&b, "*%d. %s*\n", startNum+i, o.Provider)
		fmt.Fprintf(&b, "   ⏰ %s | %s\n", o.DepartAt.Format(timeLayout), Duration(o.DurationMinutes))
		if o.ReturnAt != nil {
			fmt.Fprintf(&b, "   🔙 returns %s\n", o.ReturnAt.Format(timeLayout))
		}
		fmt.Fprintf(&b, "   🔄 %s\n", Stops(o.Stops))
		fmt.Fprintf(&b, "   💰 *%s %s*\n", o.Currency, Price(o.Price))
		if o.AffiliateLink == offers.LinkUnconfigured || o.AffiliateLink == "" {
			b.WriteString("   📵 Booking link unavailable\n\n")
		} else {
			fmt.Fprintf(&b, "   [📱 Book Now](%s)\n\n", o.AffiliateLink)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Stats summarizes a result set: total found, plus cheapest and average
// price computed over the leading page only.
func Stats(leading []offers.Offer, total int) string {
	if len(leading) == 0 {
		return ""
	}

	cheapest := leading[0]
	var sum float64
	for _, o := range leading {
		sum += o.Price
		if o.Price < cheapest.Price {
			cheapest = o
		}
	}
	avg := sum / float64(len(leading))

	return fmt.Sprintf("📊 *Stats:* %d found | Cheapest: %s %s | Avg: %s %s",
		total,
		cheapest.Currency, Price(cheapest.Price),
		cheapest.Currency, Price(avg),
	)
}

// Price renders a price with thousands separators and no decimals.
func Price(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(0)))
}

// Duration renders minutes as "Xh Ym", dropping the hour part when zero.
func Duration(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// Stops renders a stop count, "Direct" when zero.
func Stops(n int) string {
	if n == 0 {
		return "Direct"
	}
	return fmt.Sprintf("%d stop(s)", n)
}
