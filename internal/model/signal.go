package model

import "time"

// SignalType is the discrete trading recommendation.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// SignalInputs is the fixed input set every classification policy reads from.
type SignalInputs struct {
	RSI        float64
	Close      float64
	SMA50      float64
	SMA200     float64
	MACD       float64
	MACDSignal float64
	HasMACD    bool
}

// TradeSignal is the final output of the strategy engine.
type TradeSignal struct {
	Type        SignalType
	Explanation string
	Policy      string
	Inputs      SignalInputs
}

// Snapshot is one accepted refresh result: the data, its indicators and the signal.
type Snapshot struct {
	RunID      string
	Seq        uint64
	Indicators *IndicatorSet
	Signal     *TradeSignal
	StartedAt  time.Time
	FinishedAt time.Time
}
