package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Closes []float64
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPriceSeries(_ context.Context, symbol, interval string, lookback int) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	closes := m.Closes
	if closes == nil {
		closes = generateMockCloses(m.Price, lookback)
	}
	bars := make([]model.OHLCV, len(closes))
	now := time.Now().Truncate(time.Hour)
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  now.Add(-time.Duration(len(closes)-1-i) * time.Hour),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return model.SeriesFromBars(symbol, interval, trim(bars, lookback)), nil
}

func generateMockCloses(basePrice float64, count int) []float64 {
	closes := make([]float64, count)
	for i := range closes {
		closes[i] = basePrice * (1 + 0.02*math.Sin(float64(i)/8) + float64(i-count/2)*0.0005)
	}
	return closes
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher  Fetcher
	Symbol   string
	Interval string
	Lookback int
	Params   calculator.Params
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol, interval string, lookback int, params calculator.Params) *Collector {
	return &Collector{
		Fetcher:  fetcher,
		Symbol:   symbol,
		Interval: interval,
		Lookback: lookback,
		Params:   params,
	}
}

// Fetch loads a fresh price series from the configured source.
func (c *Collector) Fetch(ctx context.Context) (*model.PriceSeries, error) {
	series, err := c.Fetcher.FetchPriceSeries(ctx, c.Symbol, c.Interval, c.Lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", c.Symbol, c.Fetcher.Name(), err)
	}
	return series, nil
}

// Compute derives the indicator set for an already fetched series.
func (c *Collector) Compute(series *model.PriceSeries) (*model.IndicatorSet, error) {
	ind, err := calculator.Compute(series, c.Params)
	if err != nil {
		return nil, fmt.Errorf("compute indicators: %w", err)
	}
	return ind, nil
}
