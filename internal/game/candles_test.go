package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeoff/gameclient/internal/model"
)

func dayTick(day int, hour int, o, h, l, c float64) model.PricePoint {
	return model.PricePoint{
		Time:  time.Date(2026, 4, day, hour, 0, 0, 0, time.UTC).Unix(),
		Open:  o,
		High:  h,
		Low:   l,
		Close: c,
	}
}

func TestMergeTickSameDayAmendsTail(t *testing.T) {
	series := []model.PricePoint{dayTick(1, 0, 10, 12, 9, 11)}
	series[0].Volume = 2

	incoming := dayTick(1, 10, 11, 13, 10, 12)
	incoming.Volume = 3

	series = mergeTick(series, incoming)

	require.Len(t, series, 1)
	got := series[0]
	assert.Equal(t, 10.0, got.Open, "open never changes within a bucket")
	assert.Equal(t, 13.0, got.High)
	assert.Equal(t, 9.0, got.Low)
	assert.Equal(t, 12.0, got.Close)
	assert.Equal(t, 5.0, got.Volume, "volume accumulates")
}

func TestMergeTickNewDayAppends(t *testing.T) {
	series := []model.PricePoint{dayTick(1, 23, 10, 12, 9, 11)}
	series = mergeTick(series, dayTick(2, 0, 11, 13, 10, 12))

	require.Len(t, series, 2)
	assert.Equal(t, 11.0, series[1].Open)
}

func TestMergeTickEmptySeries(t *testing.T) {
	series := mergeTick(nil, dayTick(1, 0, 10, 12, 9, 11))
	require.Len(t, series, 1)
	assert.Equal(t, 10.0, series[0].Open)
}

// One series element per distinct bucket key; each bucket's high/low equal
// the extremes of all ticks merged into it.
func TestMergeTickBucketAggregation(t *testing.T) {
	ticks := []model.PricePoint{
		dayTick(1, 1, 10, 12, 9, 11),
		dayTick(1, 5, 11, 15, 10, 14),
		dayTick(1, 9, 14, 14, 7, 8),
		dayTick(2, 1, 8, 9, 8, 9),
		dayTick(2, 7, 9, 20, 3, 10),
		dayTick(3, 1, 10, 11, 10, 11),
	}

	var series []model.PricePoint
	for _, tick := range ticks {
		series = mergeTick(series, tick)
	}

	require.Len(t, series, 3, "series length equals number of distinct buckets")

	assert.Equal(t, 15.0, series[0].High)
	assert.Equal(t, 7.0, series[0].Low)
	assert.Equal(t, 8.0, series[0].Close)
	assert.Equal(t, 10.0, series[0].Open)

	assert.Equal(t, 20.0, series[1].High)
	assert.Equal(t, 3.0, series[1].Low)

	assert.Equal(t, 11.0, series[2].Close)
}
