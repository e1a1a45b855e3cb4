package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds closing prices in chronological order (oldest first).
// Times is either empty or the same length as Closes.
type PriceSeries struct {
	Symbol    string
	Interval  string
	Times     []time.Time
	Closes    []float64
	FetchedAt time.Time
}

// Len returns the number of prices in the series.
func (p *PriceSeries) Len() int { return len(p.Closes) }

// Last returns the most recent closing price, or 0 for an empty series.
func (p *PriceSeries) Last() float64 {
	if len(p.Closes) == 0 {
		return 0
	}
	return p.Closes[len(p.Closes)-1]
}

// SeriesFromBars builds a PriceSeries from bars already sorted by time.
func SeriesFromBars(symbol, interval string, bars []OHLCV) *PriceSeries {
	ps := &PriceSeries{
		Symbol:    symbol,
		Interval:  interval,
		Times:     make([]time.Time, len(bars)),
		Closes:    make([]float64, len(bars)),
		FetchedAt: time.Now(),
	}
	for i, b := range bars {
		ps.Times[i] = b.Time
		ps.Closes[i] = b.Close
	}
	return ps
}
