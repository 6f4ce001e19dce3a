package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SaleNotification is the parsed form of a payment platform sale ping.
// Every field is already defaulted and normalized; the pipeline never sees
// raw form values.
type SaleNotification struct {
	Email       string
	OrderID     string
	BusinessURL string
	Amount      float64
	Currency    string
}

// ParseSaleNotification extracts a notification from decoded form values.
//
//   - email may be absent and stays empty.
//   - sale_id becomes the order id; when absent, "ORD-<epoch millis>" from now.
//   - custom_fields[website], falling back to website, is normalized; when
//     both are absent or empty the stored value is "Not provided".
//   - price holds integer minor units; absent or unparseable means 0.
//   - currency falls back to defaultCurrency.
func ParseSaleNotification(values url.Values, defaultCurrency string, now time.Time) SaleNotification {
	n := SaleNotification{
		Email:    strings.TrimSpace(values.Get("email")),
		OrderID:  strings.TrimSpace(values.Get("sale_id")),
		Currency: strings.TrimSpace(values.Get("currency")),
	}
	if n.OrderID == "" {
		n.OrderID = fmt.Sprintf("ORD-%d", now.UnixMilli())
	}
	if n.Currency == "" {
		n.Currency = defaultCurrency
	}

	site := values.Get("custom_fields[website]")
	if strings.TrimSpace(site) == "" {
		site = values.Get("website")
	}
	n.BusinessURL = NormalizeBusinessURL(site)
	if n.BusinessURL == "" {
		n.BusinessURL = NoWebsiteProvided
	}

	n.Amount = AmountFromMinorUnits(values.Get("price"))
	return n
}

// NormalizeBusinessURL strips an http:// or https:// scheme and a single
// leading www. from a submitted website address.
func NormalizeBusinessURL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return s
}

// AmountFromMinorUnits converts a platform price field (integer minor units,
// e.g. cents) into major units. Absent or malformed input counts as zero.
func AmountFromMinorUnits(raw string) float64 {
	minor, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return float64(minor) / 100
}
