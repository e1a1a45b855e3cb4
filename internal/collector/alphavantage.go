package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"SignalSentinel/internal/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage time series API.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a fetcher with optional proxy support.
func NewAlphaVantageFetcher(apiKey, proxyURL string) *AlphaVantageFetcher {
	return &AlphaVantageFetcher{
		BaseURL: alphaVantageBaseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

type avBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// avQuery returns the API function, its interval parameter and the series key.
func avQuery(interval string) (function, avInterval, seriesKey string) {
	switch interval {
	case "1min", "5min", "15min", "30min", "60min":
		return "TIME_SERIES_INTRADAY", interval, fmt.Sprintf("Time Series (%s)", interval)
	case "1m", "5m", "15m", "30m":
		iv := interval[:len(interval)-1] + "min"
		return "TIME_SERIES_INTRADAY", iv, fmt.Sprintf("Time Series (%s)", iv)
	case "1h", "60m":
		return "TIME_SERIES_INTRADAY", "60min", "Time Series (60min)"
	case "1wk", "weekly":
		return "TIME_SERIES_WEEKLY", "", "Weekly Time Series"
	}
	return "TIME_SERIES_DAILY", "", "Time Series (Daily)"
}

func parseAVTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// FetchPriceSeries loads one time series and returns its closes, oldest first.
func (f *AlphaVantageFetcher) FetchPriceSeries(ctx context.Context, symbol, interval string, lookback int) (*model.PriceSeries, error) {
	function, avInterval, seriesKey := avQuery(interval)

	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", symbol)
	q.Set("apikey", f.APIKey)
	if avInterval != "" {
		q.Set("interval", avInterval)
	}
	if lookback > 100 {
		q.Set("outputsize", "full")
	} else {
		q.Set("outputsize", "compact")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if msg, ok := raw["Error Message"]; ok {
		return nil, fmt.Errorf("alphavantage %s: %w: %s", symbol, ErrInvalidSymbol, string(msg))
	}
	for _, k := range []string{"Note", "Information"} {
		if msg, ok := raw[k]; ok {
			return nil, fmt.Errorf("alphavantage: %w: %s", ErrRateLimited, string(msg))
		}
	}
	seriesRaw, ok := raw[seriesKey]
	if !ok {
		return nil, fmt.Errorf("alphavantage %s: %w: missing %q", symbol, ErrNoData, seriesKey)
	}

	var series map[string]avBar
	if err := json.Unmarshal(seriesRaw, &series); err != nil {
		return nil, fmt.Errorf("alphavantage decode series: %w", err)
	}

	bars := make([]model.OHLCV, 0, len(series))
	for ts, b := range series {
		t, err := parseAVTime(ts)
		if err != nil {
			return nil, fmt.Errorf("alphavantage timestamp %q: %w", ts, err)
		}
		c, err := strconv.ParseFloat(b.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage close %q at %s: %w", b.Close, ts, err)
		}
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   parseFloat(b.Open),
			High:   parseFloat(b.High),
			Low:    parseFloat(b.Low),
			Close:  c,
			Volume: parseFloat(b.Volume),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("alphavantage %s: %w", symbol, ErrNoData)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return model.SeriesFromBars(symbol, interval, trim(bars, lookback)), nil
}
