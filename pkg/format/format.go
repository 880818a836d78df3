// Package format renders amounts and dates the way the shop reads them.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every amount.
const CurrencySymbol = "₹"

// DateLayout is DD/MM/YYYY.
const DateLayout = "02/01/2006"

// ISODate is the layout used in query strings (start_date, end_date).
const ISODate = "2006-01-02"

// Amount formats d with thousands grouping and two decimals, e.g. ₹1,234.50.
func Amount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	dot := strings.IndexByte(fixed, '.')
	whole, err := strconv.ParseInt(fixed[:dot], 10, 64)
	if err != nil {
		return sign + CurrencySymbol + fixed
	}
	p := message.NewPrinter(language.English)
	return sign + CurrencySymbol + p.Sprintf("%d", whole) + fixed[dot:]
}

// Count formats an integer with thousands grouping.
func Count(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// Date formats t as DD/MM/YYYY; the zero time renders as "-".
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}

// OrDash returns "-" for blank strings.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
