package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"SignalSentinel/internal/model"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
)

// binanceMaxLimit is the kline endpoint's per-request cap.
const binanceMaxLimit = 1000

// BinanceFetcher implements Fetcher using Binance spot klines.
type BinanceFetcher struct {
	client *binance.Client
}

// NewBinanceFetcher creates a fetcher for public kline data. Keys may be empty.
func NewBinanceFetcher(apiKey, secretKey, baseURL, proxyURL string) *BinanceFetcher {
	c := binance.NewClient(apiKey, secretKey)
	if baseURL != "" {
		c.BaseURL = baseURL
	}
	if proxyURL != "" {
		c.HTTPClient = newHTTPClient(proxyURL)
	} else {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &BinanceFetcher{client: c}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// binanceInterval maps the shared interval names onto Binance's.
func binanceInterval(interval string) string {
	switch interval {
	case "", "1d", "daily":
		return "1d"
	case "1wk", "weekly":
		return "1w"
	case "60m", "60min":
		return "1h"
	}
	if strings.HasSuffix(interval, "min") {
		return strings.TrimSuffix(interval, "in")
	}
	return interval
}

// FetchPriceSeries loads the most recent lookback klines, oldest first.
func (f *BinanceFetcher) FetchPriceSeries(ctx context.Context, symbol, interval string, lookback int) (*model.PriceSeries, error) {
	limit := lookback
	if limit <= 0 || limit > binanceMaxLimit {
		limit = binanceMaxLimit
	}
	klines, err := f.client.NewKlinesService().
		Symbol(strings.ToUpper(symbol)).
		Interval(binanceInterval(interval)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, mapBinanceError(symbol, err)
	}
	if len(klines) == 0 {
		return nil, fmt.Errorf("binance %s: %w", symbol, ErrNoData)
	}

	bars := make([]model.OHLCV, 0, len(klines))
	for _, k := range klines {
		c, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("binance close %q: %w", k.Close, err)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.UnixMilli(k.OpenTime),
			Open:   parseFloat(k.Open),
			High:   parseFloat(k.High),
			Low:    parseFloat(k.Low),
			Close:  c,
			Volume: parseFloat(k.Volume),
		})
	}
	return model.SeriesFromBars(symbol, interval, trim(bars, lookback)), nil
}

func mapBinanceError(symbol string, err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case -1121: // Invalid symbol
			return fmt.Errorf("binance %s: %w: %s", symbol, ErrInvalidSymbol, apiErr.Message)
		case -1003: // Too many requests
			return fmt.Errorf("binance: %w: %s", ErrRateLimited, apiErr.Message)
		}
		return fmt.Errorf("binance api error %d: %s", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("binance fetch: %w", err)
}
