package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"SignalSentinel/internal/model"
)

var (
	// ErrInvalidSymbol is returned when the provider does not know the symbol.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrNoData is returned when the provider answers without usable prices.
	ErrNoData = errors.New("no data")
	// ErrRateLimited is returned when the provider throttles the request.
	ErrRateLimited = errors.New("rate limited")
)

// Fetcher supplies a price series for a symbol.
type Fetcher interface {
	FetchPriceSeries(ctx context.Context, symbol, interval string, lookback int) (*model.PriceSeries, error)
	Name() string
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// trim keeps the most recent lookback bars. lookback <= 0 keeps everything.
func trim(bars []model.OHLCV, lookback int) []model.OHLCV {
	if lookback > 0 && len(bars) > lookback {
		return bars[len(bars)-lookback:]
	}
	return bars
}

// parseFloat reads optional numeric fields; unparsable values become 0.
func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
