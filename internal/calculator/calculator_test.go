package calculator

import (
	"math"
	"testing"

	"SignalSentinel/internal/model"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func ascending(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func flat(n int, c float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/5) + 0.3*float64(i%7)
	}
	return out
}

func TestValidatePrices(t *testing.T) {
	assert.NoError(t, ValidatePrices([]float64{0, 1.5, 3}))
	assert.ErrorIs(t, ValidatePrices(nil), ErrInsufficientData)
	assert.ErrorIs(t, ValidatePrices([]float64{1, math.NaN()}), ErrInvalidPrice)
	assert.ErrorIs(t, ValidatePrices([]float64{math.Inf(1)}), ErrInvalidPrice)
	assert.ErrorIs(t, ValidatePrices([]float64{1, -2}), ErrInvalidPrice)
}

func TestSMA_WarmupAndWindow(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}
	got, err := SMA(prices, 3)
	require.NoError(t, err)
	require.Len(t, got, len(prices))

	want := []float64{10, 11, 12, 11, 12, 13}
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "index %d", i)
	}
}

func TestSMA_ExcludesCurrentPrice(t *testing.T) {
	prices := wave(120)
	for _, period := range []int{1, 5, 50} {
		got, err := SMA(prices, period)
		require.NoError(t, err)
		require.Len(t, got, len(prices))
		for i := period; i < len(prices); i++ {
			sum := 0.0
			for j := i - period; j < i; j++ {
				sum += prices[j]
			}
			assert.InDelta(t, sum/float64(period), got[i], tol, "period %d index %d", period, i)
		}
	}
}

func TestSMA_PeriodAtLeastLength(t *testing.T) {
	prices := []float64{5, 6, 7}
	for _, period := range []int{3, 10} {
		got, err := SMA(prices, period)
		require.NoError(t, err)
		assert.Equal(t, prices, got)
	}
}

func TestSMA_Errors(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = SMA(nil, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSMA_FlatSeries(t *testing.T) {
	prices := flat(300, 42.5)
	sma50, err := SMA(prices, 50)
	require.NoError(t, err)
	sma200, err := SMA(prices, 200)
	require.NoError(t, err)
	for i := range prices {
		assert.InDelta(t, 42.5, sma50[i], tol)
		assert.InDelta(t, 42.5, sma200[i], tol)
	}
}

func TestRSI_HandCalculated(t *testing.T) {
	// deltas: +2 -1 +2 -1 +2
	prices := []float64{100, 102, 101, 103, 102, 104}
	got, err := RSI(prices, 3)
	require.NoError(t, err)
	want := []float64{50, 50, 80, 50, 80}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "index %d", i)
	}
}

func TestRSI_Ascending(t *testing.T) {
	got, err := RSI(ascending(60), 14)
	require.NoError(t, err)
	require.Len(t, got, 59)
	for k, v := range got {
		if k+1 < 14 {
			assert.Equal(t, 50.0, v, "warm-up index %d", k)
		} else {
			assert.Equal(t, 100.0, v, "index %d", k)
		}
	}
}

func TestRSI_Descending(t *testing.T) {
	prices := ascending(40)
	for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
		prices[i], prices[j] = prices[j], prices[i]
	}
	got, err := RSI(prices, 14)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got[len(got)-1], tol)
}

func TestRSI_FlatIsNeutral(t *testing.T) {
	got, err := RSI(flat(300, 7), 14)
	require.NoError(t, err)
	for _, v := range got {
		assert.Equal(t, 50.0, v)
	}
}

func TestRSI_SubstituteOneGuard(t *testing.T) {
	// Unit gains with the loss average replaced by 1 give RS = 1.
	got, err := RSIWithGuard(ascending(60), 14, GuardSubstituteOne)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got[len(got)-1], tol)

	got, err = RSIWithGuard([]float64{10, 14, 18, 22}, 2, GuardSubstituteOne)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, got[len(got)-1], tol)

	got, err = RSIWithGuard(flat(20, 3), 14, GuardSubstituteOne)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got[len(got)-1], tol)
}

func TestRSI_DefaultGuardIsSaturate(t *testing.T) {
	prices := ascending(30)
	def, err := RSI(prices, 14)
	require.NoError(t, err)
	sat, err := RSIWithGuard(prices, 14, GuardSaturate)
	require.NoError(t, err)
	sub, err := RSIWithGuard(prices, 14, GuardSubstituteOne)
	require.NoError(t, err)

	assert.Equal(t, sat, def)
	assert.Equal(t, 100.0, last(def))
	assert.InDelta(t, 50.0, last(sub), tol)
	assert.Equal(t, GuardSaturate, DefaultParams().RSIGuard)
}

func TestRSI_Bounds(t *testing.T) {
	got, err := RSI(wave(250), 14)
	require.NoError(t, err)
	for _, v := range got {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestRSI_Errors(t *testing.T) {
	_, err := RSI([]float64{1}, 14)
	assert.ErrorIs(t, err, ErrInsufficientData)
	_, err = RSI([]float64{1, 2, 3}, -1)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestEMA_Basic(t *testing.T) {
	got, err := EMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 3, 4}, got, tol)
}

func TestEMA_SeedAndRecurrence(t *testing.T) {
	prices := wave(200)
	period := 12
	got, err := EMA(prices, period)
	require.NoError(t, err)
	require.Len(t, got, len(prices)-period+1)

	assert.Equal(t, mean(prices[:period]), got[0])
	k := 2.0 / float64(period+1)
	for j := 1; j < len(got); j++ {
		p := prices[j+period-1]
		assert.InDelta(t, p*k+got[j-1]*(1-k), got[j], tol, "index %d", j)
	}
}

func TestEMA_MatchesTalib(t *testing.T) {
	prices := wave(300)
	for _, period := range []int{5, 12, 26} {
		got, err := EMA(prices, period)
		require.NoError(t, err)
		ref := talib.Ema(prices, period)
		for j := range got {
			assert.InDelta(t, ref[j+period-1], got[j], 1e-9, "period %d index %d", period, j)
		}
	}
}

func TestEMA_InsufficientData(t *testing.T) {
	_, err := EMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)

	got, err := EMA([]float64{1, 2, 3}, 3)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMACD_Alignment(t *testing.T) {
	prices := wave(60)
	res, err := DefaultMACD(prices)
	require.NoError(t, err)

	require.NotEmpty(t, res.MACD)
	assert.Len(t, res.Signal, len(res.MACD))
	assert.Len(t, res.Histogram, len(res.MACD))
	assert.Equal(t, 33, res.Offset)
	assert.Equal(t, len(prices)-1, res.Offset+len(res.MACD)-1)

	for j := range res.MACD {
		idx := res.Offset + j
		want := res.Fast[idx-res.FastOffset] - res.Slow[idx-res.SlowOffset]
		assert.InDelta(t, want, res.MACD[j], tol, "index %d", j)
		assert.InDelta(t, res.MACD[j]-res.Signal[j], res.Histogram[j], tol)
	}
}

func TestMACD_SignalIsEMAOfLine(t *testing.T) {
	prices := wave(120)
	res, err := MACD(prices, 12, 26, 9)
	require.NoError(t, err)

	fast, _ := EMA(prices, 12)
	slow, _ := EMA(prices, 26)
	full := make([]float64, len(slow))
	for i := range slow {
		full[i] = fast[i+14] - slow[i]
	}
	sig, err := EMA(full, 9)
	require.NoError(t, err)
	assert.InDeltaSlice(t, sig, res.Signal, tol)
	assert.InDeltaSlice(t, full[8:], res.MACD, tol)
}

func TestMACD_Deterministic(t *testing.T) {
	prices := wave(90)
	a, err := DefaultMACD(prices)
	require.NoError(t, err)
	b, err := DefaultMACD(prices)
	require.NoError(t, err)
	am, as := a.Latest()
	bm, bs := b.Latest()
	assert.Equal(t, am, bm)
	assert.Equal(t, as, bs)
}

func TestMACD_FlatIsZero(t *testing.T) {
	res, err := DefaultMACD(flat(100, 20))
	require.NoError(t, err)
	for j := range res.MACD {
		assert.InDelta(t, 0.0, res.MACD[j], tol)
		assert.InDelta(t, 0.0, res.Signal[j], tol)
	}
}

func TestMACD_RisingTrendIsPositive(t *testing.T) {
	res, err := DefaultMACD(ascending(80))
	require.NoError(t, err)
	m, _ := res.Latest()
	assert.Greater(t, m, 0.0)
}

func TestMACD_Errors(t *testing.T) {
	_, err := DefaultMACD(wave(33))
	assert.ErrorIs(t, err, ErrInsufficientData)

	res, err := DefaultMACD(wave(34))
	require.NoError(t, err)
	assert.Len(t, res.MACD, 1)

	_, err = MACD(wave(100), 26, 12, 9)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = MACD(wave(100), 0, 26, 9)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestCompute(t *testing.T) {
	series := &model.PriceSeries{Symbol: "TEST", Closes: wave(300)}
	set, err := Compute(series, DefaultParams())
	require.NoError(t, err)

	assert.Len(t, set.SMAFast, 300)
	assert.Len(t, set.SMASlow, 300)
	assert.Len(t, set.RSI, 299)
	assert.Len(t, set.EMAFast, 289)
	assert.Len(t, set.EMASlow, 275)
	assert.Len(t, set.MACD, 267)
	assert.Equal(t, 33, set.MACDOffset)

	assert.Equal(t, series.Closes[299], set.Latest.Close)
	assert.Equal(t, set.SMAFast[299], set.Latest.SMAFast)
	assert.Equal(t, set.RSI[298], set.Latest.RSI)
	assert.Equal(t, set.MACDSignal[266], set.Latest.MACDSignal)
	assert.True(t, set.Latest.HasMACD)
}

func TestCompute_Errors(t *testing.T) {
	_, err := Compute(&model.PriceSeries{Closes: wave(20)}, DefaultParams())
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Compute(&model.PriceSeries{Closes: []float64{1, math.NaN()}}, DefaultParams())
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Compute(nil, DefaultParams())
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestParams_MinPrices(t *testing.T) {
	assert.Equal(t, 34, DefaultParams().MinPrices())
}
