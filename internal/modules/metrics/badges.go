package metrics

import "github.com/aristath/lynchlens/internal/domain"

// Badge is a qualitative tier shown next to a metric card. Empty when
// the underlying value is unavailable.
type Badge string

const (
	BadgeCheap       Badge = "cheap"
	BadgeNormal      Badge = "normal"
	BadgeFair        Badge = "fair"
	BadgeExpensive   Badge = "expensive"
	BadgeUndervalued Badge = "undervalued"
	BadgeOvervalued  Badge = "overvalued"

	BadgeMegaCap  Badge = "mega-cap"
	BadgeLargeCap Badge = "large-cap"
	BadgeMidCap   Badge = "mid-cap"
	BadgeSmallCap Badge = "small-cap"

	BadgeLowVolatility  Badge = "low-volatility"
	BadgeMarket         Badge = "market"
	BadgeHighVolatility Badge = "high-volatility"
)

// Badges bundles the card tiers for one snapshot.
type Badges struct {
	PE        Badge `json:"pe,omitempty"`
	Peg       Badge `json:"peg,omitempty"`
	PriceBook Badge `json:"price_book,omitempty"`
	MarketCap Badge `json:"market_cap,omitempty"`
	Beta      Badge `json:"beta,omitempty"`
}

// ComputeBadges derives all card tiers. peg is the resolved PEG, not
// the raw provider field.
func ComputeBadges(snap *domain.FinancialSnapshot, peg domain.OptionalFloat) Badges {
	return Badges{
		PE:        PEBadge(snap.TrailingPE),
		Peg:       PegBadge(peg),
		PriceBook: PriceBookBadge(snap.PriceToBook),
		MarketCap: MarketCapBadge(snap.MarketCap),
		Beta:      BetaBadge(snap.Beta),
	}
}

// PEBadge: below 15 cheap, above 25 expensive.
func PEBadge(pe domain.OptionalFloat) Badge {
	v, ok := pe.Get()
	if !ok {
		return ""
	}
	switch {
	case v > 25:
		return BadgeExpensive
	case v < 15:
		return BadgeCheap
	default:
		return BadgeNormal
	}
}

// PegBadge: below 1 cheap, above 2 expensive.
func PegBadge(peg domain.OptionalFloat) Badge {
	v, ok := peg.Get()
	if !ok {
		return ""
	}
	switch {
	case v < 1:
		return BadgeCheap
	case v > 2:
		return BadgeExpensive
	default:
		return BadgeFair
	}
}

// PriceBookBadge: below 1.5 undervalued, above 4 overvalued, otherwise
// no badge.
func PriceBookBadge(pb domain.OptionalFloat) Badge {
	v, ok := pb.Get()
	if !ok {
		return ""
	}
	switch {
	case v < 1.5:
		return BadgeUndervalued
	case v > 4:
		return BadgeOvervalued
	default:
		return ""
	}
}

// MarketCapBadge buckets capitalization: ≥200B mega, ≥10B large, ≥2B
// mid, below that small.
func MarketCapBadge(mcap domain.OptionalFloat) Badge {
	v, ok := mcap.Get()
	if !ok {
		return ""
	}
	switch {
	case v >= 200e9:
		return BadgeMegaCap
	case v >= 10e9:
		return BadgeLargeCap
	case v >= 2e9:
		return BadgeMidCap
	default:
		return BadgeSmallCap
	}
}

// BetaBadge: below 0.8 low volatility, above 1.3 high.
func BetaBadge(beta domain.OptionalFloat) Badge {
	v, ok := beta.Get()
	if !ok {
		return ""
	}
	switch {
	case v < 0.8:
		return BadgeLowVolatility
	case v > 1.3:
		return BadgeHighVolatility
	default:
		return BadgeMarket
	}
}
