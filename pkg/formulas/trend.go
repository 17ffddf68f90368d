package formulas

import (
	"github.com/markcheno/go-talib"
)

// Trend is the direction signal from comparing a short and a long
// moving average.
type Trend string

const (
	TrendBullish  Trend = "bullish"
	TrendBearish  Trend = "bearish"
	TrendSideways Trend = "sideways"
)

// SMA returns the latest simple moving average over the last `length`
// closes, or nil with insufficient data.
func SMA(closes []float64, length int) *float64 {
	if len(closes) < length || length <= 0 {
		return nil
	}
	out := talib.Sma(closes, length)
	if len(out) == 0 {
		return nil
	}
	v := out[len(out)-1]
	if isNaN(v) {
		return nil
	}
	return &v
}

// DetectTrend compares SMA(short) against SMA(long). When the series is
// too short for the long window, both sides collapse to the short
// average and the result is sideways.
func DetectTrend(closes []float64, short, long int) Trend {
	smaShort := SMA(closes, short)
	if smaShort == nil {
		return TrendSideways
	}
	smaLong := SMA(closes, long)
	if smaLong == nil {
		smaLong = smaShort
	}
	switch {
	case *smaShort > *smaLong:
		return TrendBullish
	case *smaShort < *smaLong:
		return TrendBearish
	default:
		return TrendSideways
	}
}

func isNaN(f float64) bool {
	return f != f
}
