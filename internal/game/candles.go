package game

import "github.com/tradeoff/gameclient/internal/model"

// sameBucket reports whether two points fall in the same aggregation bucket
// (one UTC calendar day).
func sameBucket(a, b model.PricePoint) bool {
	return a.Bucket().Equal(b.Bucket())
}

// mergeTick folds an incoming tick into the series. A tick in the same bucket
// as the tail amends the tail: high/low widen, close tracks the tick, open is
// untouched, volume accumulates. A tick in a new bucket appends. The series
// is never re-sorted; server ordering is trusted.
func mergeTick(series []model.PricePoint, tick model.PricePoint) []model.PricePoint {
	if len(series) == 0 {
		return append(series, tick)
	}

	last := &series[len(series)-1]
	if !sameBucket(*last, tick) {
		return append(series, tick)
	}

	last.High = max(last.High, tick.High)
	last.Low = min(last.Low, tick.Low)
	last.Close = tick.Close
	last.Volume += tick.Volume
	return series
}
