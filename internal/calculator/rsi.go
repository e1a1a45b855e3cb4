package calculator

import "fmt"

// ZeroLossGuard selects how RSI handles a window without any losses.
type ZeroLossGuard int

const (
	// GuardSaturate returns 100 when the window only has gains and 50 when it is flat.
	GuardSaturate ZeroLossGuard = iota
	// GuardSubstituteOne treats an average loss of zero as one.
	GuardSubstituteOne
)

// DefaultRSIPeriod is the conventional RSI look-back.
const DefaultRSIPeriod = 14

const neutralRSI = 50.0

// RSI computes the relative strength index with the saturating zero-loss guard,
// so a window of only gains reads 100 and a flat window reads 50. This is not
// the literal "average loss of zero counts as one" rule; use RSIWithGuard with
// GuardSubstituteOne for that.
func RSI(prices []float64, period int) ([]float64, error) {
	return RSIWithGuard(prices, period, GuardSaturate)
}

// RSIWithGuard computes one RSI value per consecutive price pair, so the result
// has len(prices)-1 values and element k belongs to price index k+1.
//
// Averages are plain means over the trailing period deltas ending at the current
// delta, recomputed each step (no Wilder smoothing). Positions before the first
// full window emit 50.
func RSIWithGuard(prices []float64, period int, guard ZeroLossGuard) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("rsi: %w: %d", ErrInvalidPeriod, period)
	}
	if len(prices) < 2 {
		return nil, insufficient("rsi", 2, len(prices))
	}

	n := len(prices) - 1
	gains := make([]float64, n)
	losses := make([]float64, n)
	out := make([]float64, n)

	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}

		if i < period {
			out[i-1] = neutralRSI
			continue
		}
		avgGain := mean(gains[i-period : i])
		avgLoss := mean(losses[i-period : i])
		out[i-1] = rsiValue(avgGain, avgLoss, guard)
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64, guard ZeroLossGuard) float64 {
	if avgLoss == 0 {
		switch guard {
		case GuardSubstituteOne:
			avgLoss = 1
		default:
			if avgGain == 0 {
				return neutralRSI
			}
			return 100
		}
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
