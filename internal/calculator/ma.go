package calculator

import "fmt"

// SMA computes a simple moving average with one output per input price.
//
// For i < period the raw price is passed through (warm-up). For i >= period
// the output is the mean of the period prices strictly preceding i, so the
// current price never contributes to its own average.
func SMA(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("sma: %w: %d", ErrInvalidPeriod, period)
	}
	if len(prices) == 0 {
		return nil, insufficient("sma", 1, 0)
	}
	out := make([]float64, len(prices))
	for i, p := range prices {
		if i < period {
			out[i] = p
			continue
		}
		out[i] = mean(prices[i-period : i])
	}
	return out, nil
}

// EMA computes an exponential moving average seeded with the mean of the first
// period prices. The result has len(prices)-period+1 values; element 0 belongs
// to price index period-1.
func EMA(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("ema: %w: %d", ErrInvalidPeriod, period)
	}
	if len(prices) < period {
		return nil, insufficient(fmt.Sprintf("ema(%d)", period), period, len(prices))
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, 0, len(prices)-period+1)
	out = append(out, mean(prices[:period]))
	for i := period; i < len(prices); i++ {
		out = append(out, prices[i]*k+last(out)*(1-k))
	}
	return out, nil
}
