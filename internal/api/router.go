// Package api serves the latest indicators and signal history over HTTP.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/scheduler"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// LatestResponse is the chart payload for the latest accepted refresh.
// Every series is aligned to Labels; warm-up positions without a value are null.
type LatestResponse struct {
	RunID       string     `json:"run_id"`
	Symbol      string     `json:"symbol"`
	Interval    string     `json:"interval"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Labels      []string   `json:"labels"`
	Prices      []float64  `json:"prices"`
	SMA50       []float64  `json:"sma50"`
	SMA200      []float64  `json:"sma200"`
	RSI         []*float64 `json:"rsi"`
	MACD        []*float64 `json:"macd"`
	MACDSignal  []*float64 `json:"macd_signal"`
	MACDHist    []*float64 `json:"macd_hist"`
	Signal      string     `json:"signal"`
	Policy      string     `json:"policy"`
	Explanation string     `json:"explanation"`
}

// NewRouter sets up HTTP routes for the API server.
func NewRouter(pub *scheduler.Publisher, rec recorder.Recorder, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if pub.Latest() == nil {
			status = "warming_up"
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": status})
	})

	mux.HandleFunc("/api/v1/latest", func(w http.ResponseWriter, r *http.Request) {
		snap := pub.Latest()
		if snap == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no signal computed yet"})
			return
		}
		writeJSON(w, http.StatusOK, buildLatest(snap))
	})

	mux.HandleFunc("/api/v1/history", func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistoryLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
				return
			}
			limit = min(n, maxHistoryLimit)
		}
		records, err := rec.RecentSignals(limit)
		if err != nil {
			log.Printf("[ERROR] api history: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
			return
		}
		if records == nil {
			records = []recorder.SignalRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	})

	if m != nil {
		mux.Handle("/metrics", m.Handler())
	}
	return mux
}

func buildLatest(snap *model.Snapshot) LatestResponse {
	ind := snap.Indicators
	s := ind.Series
	n := s.Len()

	labels := make([]string, n)
	for i := range labels {
		if i < len(s.Times) {
			labels[i] = s.Times[i].UTC().Format(time.RFC3339)
		} else {
			labels[i] = strconv.Itoa(i)
		}
	}

	return LatestResponse{
		RunID:       snap.RunID,
		Symbol:      s.Symbol,
		Interval:    s.Interval,
		UpdatedAt:   snap.FinishedAt,
		Labels:      labels,
		Prices:      s.Closes,
		SMA50:       ind.SMAFast,
		SMA200:      ind.SMASlow,
		RSI:         align(ind.RSI, 1, n),
		MACD:        align(ind.MACD, ind.MACDOffset, n),
		MACDSignal:  align(ind.MACDSignal, ind.MACDOffset, n),
		MACDHist:    align(ind.MACDHist, ind.MACDOffset, n),
		Signal:      string(snap.Signal.Type),
		Policy:      snap.Signal.Policy,
		Explanation: snap.Signal.Explanation,
	}
}

// align pads a series that starts at price index offset to length n.
func align(values []float64, offset, n int) []*float64 {
	out := make([]*float64, n)
	for i := range values {
		if j := offset + i; j < n {
			v := values[i]
			out[j] = &v
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] api encode: %v", err)
	}
}
