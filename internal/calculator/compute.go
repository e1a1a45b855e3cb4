package calculator

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Params configures the periods used by Compute.
type Params struct {
	SMAFast    int
	SMASlow    int
	RSIPeriod  int
	RSIGuard   ZeroLossGuard
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// DefaultParams returns SMA 50/200, RSI 14 and MACD 12/26/9.
func DefaultParams() Params {
	return Params{
		SMAFast:    50,
		SMASlow:    200,
		RSIPeriod:  DefaultRSIPeriod,
		RSIGuard:   GuardSaturate,
		MACDFast:   DefaultMACDFast,
		MACDSlow:   DefaultMACDSlow,
		MACDSignal: DefaultMACDSignal,
	}
}

// MinPrices is the shortest series Compute accepts with these params.
func (p Params) MinPrices() int {
	n := p.MACDSlow + p.MACDSignal - 1
	if n < 2 {
		n = 2
	}
	return n
}

// Compute derives the full indicator set for one price series.
func Compute(series *model.PriceSeries, p Params) (*model.IndicatorSet, error) {
	if series == nil {
		return nil, fmt.Errorf("compute: %w: nil series", ErrInsufficientData)
	}
	prices := series.Closes
	if err := ValidatePrices(prices); err != nil {
		return nil, fmt.Errorf("compute %s: %w", series.Symbol, err)
	}

	smaFast, err := SMA(prices, p.SMAFast)
	if err != nil {
		return nil, fmt.Errorf("sma%d: %w", p.SMAFast, err)
	}
	smaSlow, err := SMA(prices, p.SMASlow)
	if err != nil {
		return nil, fmt.Errorf("sma%d: %w", p.SMASlow, err)
	}
	rsi, err := RSIWithGuard(prices, p.RSIPeriod, p.RSIGuard)
	if err != nil {
		return nil, fmt.Errorf("rsi%d: %w", p.RSIPeriod, err)
	}
	macd, err := MACD(prices, p.MACDFast, p.MACDSlow, p.MACDSignal)
	if err != nil {
		return nil, err
	}

	set := &model.IndicatorSet{
		Series:        series,
		SMAFastPeriod: p.SMAFast,
		SMASlowPeriod: p.SMASlow,
		SMAFast:       smaFast,
		SMASlow:       smaSlow,
		RSIPeriod:     p.RSIPeriod,
		RSI:           rsi,
		EMAFast:       macd.Fast,
		EMAFastOffset: macd.FastOffset,
		EMASlow:       macd.Slow,
		EMASlowOffset: macd.SlowOffset,
		MACD:          macd.MACD,
		MACDSignal:    macd.Signal,
		MACDHist:      macd.Histogram,
		MACDOffset:    macd.Offset,
	}
	lastMACD, lastSignal := macd.Latest()
	set.Latest = model.LatestValues{
		Close:      last(prices),
		SMAFast:    last(smaFast),
		SMASlow:    last(smaSlow),
		RSI:        last(rsi),
		MACD:       lastMACD,
		MACDSignal: lastSignal,
		HasMACD:    true,
	}
	return set, nil
}
