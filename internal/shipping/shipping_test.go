package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		district string
		city     string
		want     Quote
	}{
		{
			name:     "free_over_threshold_any_district",
			subtotal: 600_000,
			district: "Cần Thơ",
			city:     "Cần Thơ",
			want:     Quote{Fee: 0, IsFree: true, Reason: ReasonFreeOverThreshold},
		},
		{
			name:     "free_exactly_at_threshold",
			subtotal: 500_000,
			district: "Quận 1",
			city:     "TP. Hồ Chí Minh",
			want:     Quote{Fee: 0, IsFree: true, Reason: ReasonFreeOverThreshold},
		},
		{
			name:     "inner_city_flat_fee",
			subtotal: 200_000,
			district: "Quận 1",
			city:     "TP. Hồ Chí Minh",
			want:     Quote{Fee: 30_000, IsFree: false, Reason: ReasonInnerCity},
		},
		{
			name:     "inner_city_case_insensitive_with_whitespace",
			subtotal: 100_000,
			district: "  quẬn 7  ",
			city:     "tphcm",
			want:     Quote{Fee: 30_000, IsFree: false, Reason: ReasonInnerCity},
		},
		{
			name:     "inner_city_named_district_plain_spelling",
			subtotal: 450_000,
			district: "Binh Thanh",
			city:     "Ho Chi Minh",
			want:     Quote{Fee: 30_000, IsFree: false, Reason: ReasonInnerCity},
		},
		{
			name:     "inner_city_abbreviated_district",
			subtotal: 100_000,
			district: "Q10",
			city:     "Sài Gòn",
			want:     Quote{Fee: 30_000, IsFree: false, Reason: ReasonInnerCity},
		},
		{
			name:     "unsupported_district",
			subtotal: 200_000,
			district: "Cần Thơ",
			city:     "Cần Thơ",
			want:     Quote{Fee: 0, IsFree: false, Reason: ReasonUnsupportedArea},
		},
		{
			name:     "inner_city_district_but_wrong_city",
			subtotal: 200_000,
			district: "Quận 1",
			city:     "Hà Nội",
			want:     Quote{Fee: 0, IsFree: false, Reason: ReasonUnsupportedArea},
		},
		{
			name:     "empty_district",
			subtotal: 200_000,
			district: "",
			city:     "TP. Hồ Chí Minh",
			want:     Quote{Fee: 0, IsFree: false, Reason: ReasonUnsupportedArea},
		},
		{
			name:     "empty_city",
			subtotal: 200_000,
			district: "Quận 1",
			city:     "",
			want:     Quote{Fee: 0, IsFree: false, Reason: ReasonUnsupportedArea},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.subtotal, tt.district, tt.city)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A zero fee alone is ambiguous: it means free shipping over the
// threshold OR an unsupported area. The two must stay distinguishable
// through IsFree and Reason.
func TestCompute_ZeroFeeIsNotAlwaysFree(t *testing.T) {
	free := Compute(600_000, "Cần Thơ", "Cần Thơ")
	unsupported := Compute(200_000, "Cần Thơ", "Cần Thơ")

	assert.Equal(t, int64(0), free.Fee)
	assert.Equal(t, int64(0), unsupported.Fee)
	assert.True(t, free.IsFree)
	assert.False(t, unsupported.IsFree)
	assert.NotEqual(t, free.Reason, unsupported.Reason)
}

// COD eligibility and the flat inner-city fee must never diverge for any
// address: CODAvailable(d, c) is true exactly when a sub-threshold order
// to (d, c) would get the flat fee.
func TestCODAvailable_MatchesInnerCityFee(t *testing.T) {
	addresses := []struct {
		district string
		city     string
	}{
		{"Quận 1", "TP. Hồ Chí Minh"},
		{"Quận 12", "TPHCM"},
		{"Gò Vấp", "Hồ Chí Minh"},
		{"Thu Duc", "Sai Gon"},
		{"Cần Thơ", "Cần Thơ"},
		{"Quận 1", "Hà Nội"},
		{"Hóc Môn", "TP. Hồ Chí Minh"},
		{"", ""},
	}

	for _, addr := range addresses {
		quote := Compute(1, addr.district, addr.city) // sub-threshold
		gotFlatFee := quote.Fee == InnerCityFee
		assert.Equal(t, gotFlatFee, CODAvailable(addr.district, addr.city),
			"COD eligibility diverged from flat-fee eligibility for %q / %q", addr.district, addr.city)
	}
}
