// Package shipping computes the delivery fee and COD eligibility for a
// checkout address. All functions are pure: the same subtotal and address
// always produce the same quote.
package shipping

import "strings"

const (
	// FreeThreshold is the product subtotal (VND) at and above which
	// shipping is free everywhere.
	FreeThreshold int64 = 500_000

	// InnerCityFee is the flat delivery fee (VND) inside the supported
	// inner-city area.
	InnerCityFee int64 = 30_000
)

const (
	ReasonFreeOverThreshold = "free shipping over threshold"
	ReasonInnerCity         = "inner-city delivery fee"
	ReasonUnsupportedArea   = "unsupported area, contact for shipping quote"
)

// Quote is the result of a shipping computation. A zero Fee with IsFree
// false means the area is unsupported, not that delivery is free; callers
// must check Reason (or IsFree) rather than the fee alone.
type Quote struct {
	Fee    int64  `json:"fee"`
	IsFree bool   `json:"is_free"`
	Reason string `json:"reason"`
}

// Inner-city districts of the supported metro area, in both accented and
// plain spellings. Matching is by substring over the normalized input, so
// "Quận 1" also matches entries for districts 10-12 — all of which are
// inner-city anyway.
var innerCityDistricts = []string{
	"quận 1", "quận 2", "quận 3", "quận 4", "quận 5", "quận 6",
	"quận 7", "quận 8", "quận 9", "quận 10", "quận 11", "quận 12",
	"quan 1", "quan 2", "quan 3", "quan 4", "quan 5", "quan 6",
	"quan 7", "quan 8", "quan 9", "quan 10", "quan 11", "quan 12",
	"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10", "q11", "q12",
	"q.1", "q.2", "q.3", "q.4", "q.5", "q.6", "q.7", "q.8", "q.9", "q.10", "q.11", "q.12",
	"bình thạnh", "binh thanh",
	"phú nhuận", "phu nhuan",
	"tân bình", "tan binh",
	"tân phú", "tan phu",
	"gò vấp", "go vap",
	"bình tân", "binh tan",
	"thủ đức", "thu duc",
}

// Accepted spellings of the metro area. Matched by substring, so
// "TP. Hồ Chí Minh", "TPHCM" and "Thành phố Hồ Chí Minh" all qualify.
var cityAliases = []string{
	"hồ chí minh", "ho chi minh", "hcm", "sài gòn", "saigon", "sai gon",
}

// Compute returns the shipping quote for the given subtotal and address.
// Rules are evaluated in order, first match wins.
func Compute(subtotal int64, district, city string) Quote {
	if subtotal >= FreeThreshold {
		return Quote{Fee: 0, IsFree: true, Reason: ReasonFreeOverThreshold}
	}
	if isInnerCity(district, city) {
		return Quote{Fee: InnerCityFee, IsFree: false, Reason: ReasonInnerCity}
	}
	return Quote{Fee: 0, IsFree: false, Reason: ReasonUnsupportedArea}
}

// CODAvailable reports whether cash-on-delivery is offered for the
// address. COD is available exactly where the flat inner-city fee
// applies; the predicate is shared with Compute so the two can never
// diverge.
func CODAvailable(district, city string) bool {
	return isInnerCity(district, city)
}

func isInnerCity(district, city string) bool {
	d := normalize(district)
	if d == "" || !isMetroCity(city) {
		return false
	}
	for _, known := range innerCityDistricts {
		if strings.Contains(d, known) {
			return true
		}
	}
	return false
}

func isMetroCity(city string) bool {
	c := normalize(city)
	if c == "" {
		return false
	}
	for _, alias := range cityAliases {
		if strings.Contains(c, alias) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
