// Package calculator computes technical indicators over closing-price series.
// Every function is pure: it reads its input slice and returns a fresh one.
package calculator

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInsufficientData is returned when a series is shorter than an indicator requires.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidPeriod is returned for non-positive or inconsistent periods.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrInvalidPrice is returned for NaN, infinite or negative prices.
	ErrInvalidPrice = errors.New("invalid price")
)

// ValidatePrices checks that the series is non-empty and holds finite non-negative values.
func ValidatePrices(prices []float64) error {
	if len(prices) == 0 {
		return fmt.Errorf("%w: empty price series", ErrInsufficientData)
	}
	for i, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return fmt.Errorf("%w: %v at index %d", ErrInvalidPrice, p, i)
		}
	}
	return nil
}

func insufficient(indicator string, need, have int) error {
	return fmt.Errorf("%s: %w: need %d prices, have %d", indicator, ErrInsufficientData, need, have)
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func last(xs []float64) float64 {
	return xs[len(xs)-1]
}
