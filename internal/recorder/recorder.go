package recorder

import (
	"time"

	"SignalSentinel/internal/model"
)

// SignalRecord is one stored signal row.
type SignalRecord struct {
	RunID       string    `json:"run_id"`
	Time        time.Time `json:"time"`
	Symbol      string    `json:"symbol"`
	Interval    string    `json:"interval"`
	Policy      string    `json:"policy"`
	Signal      string    `json:"signal"`
	Price       float64   `json:"price"`
	SMAFast     float64   `json:"sma_fast"`
	SMASlow     float64   `json:"sma_slow"`
	RSI         float64   `json:"rsi"`
	MACD        float64   `json:"macd"`
	MACDSignal  float64   `json:"macd_signal"`
	Explanation string    `json:"explanation"`
}

// FailureEvent records a refresh that produced no signal.
type FailureEvent struct {
	RunID  string
	Symbol string
	Stage  string // "collect", "compute" or "classify"
	Err    string
}

// Recorder persists signal history for later analysis.
type Recorder interface {
	RecordSignal(snap *model.Snapshot) error
	RecordFailure(evt *FailureEvent) error
	RecentSignals(limit int) ([]SignalRecord, error)
	Close() error
}
