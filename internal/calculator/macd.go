package calculator

import "fmt"

// Default MACD periods.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACDResult holds equal-length MACD, signal and histogram series that all end
// at the last input price. Offset is the price index of element 0.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
	Offset    int

	// Fast and Slow are the underlying EMAs with their own offsets.
	Fast       []float64
	FastOffset int
	Slow       []float64
	SlowOffset int
}

// Latest returns the last MACD and signal values.
func (r *MACDResult) Latest() (macd, signal float64) {
	return last(r.MACD), last(r.Signal)
}

// DefaultMACD computes MACD(12, 26, 9).
func DefaultMACD(prices []float64) (*MACDResult, error) {
	return MACD(prices, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
}

// MACD computes the difference of a fast and slow EMA and its signal EMA.
//
// The fast EMA starts at price index fast-1 and the slow one at slow-1, so the
// first slow-fast fast values are dropped before subtracting. The signal EMA
// starts signal-1 entries into the MACD line; the MACD line is trimmed by the
// same amount so every returned series shares one index.
func MACD(prices []float64, fast, slow, signal int) (*MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, fmt.Errorf("macd: %w: fast=%d slow=%d signal=%d", ErrInvalidPeriod, fast, slow, signal)
	}
	if fast >= slow {
		return nil, fmt.Errorf("macd: %w: fast period %d must be below slow period %d", ErrInvalidPeriod, fast, slow)
	}
	need := slow + signal - 1
	if len(prices) < need {
		return nil, insufficient("macd", need, len(prices))
	}

	fastEMA, err := EMA(prices, fast)
	if err != nil {
		return nil, fmt.Errorf("macd fast: %w", err)
	}
	slowEMA, err := EMA(prices, slow)
	if err != nil {
		return nil, fmt.Errorf("macd slow: %w", err)
	}

	aligned := fastEMA[slow-fast:]
	line := make([]float64, len(slowEMA))
	for i := range slowEMA {
		line[i] = aligned[i] - slowEMA[i]
	}

	sig, err := EMA(line, signal)
	if err != nil {
		return nil, fmt.Errorf("macd signal: %w", err)
	}
	line = line[signal-1:]

	hist := make([]float64, len(sig))
	for i := range sig {
		hist[i] = line[i] - sig[i]
	}

	return &MACDResult{
		MACD:       line,
		Signal:     sig,
		Histogram:  hist,
		Offset:     slow + signal - 2,
		Fast:       fastEMA,
		FastOffset: fast - 1,
		Slow:       slowEMA,
		SlowOffset: slow - 1,
	}, nil
}
