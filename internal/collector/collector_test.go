package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"SignalSentinel/internal/calculator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestYahooFetcher_ParsesAndSorts(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[300,100,200,400],
		"indicators":{"quote":[{"open":[3,1,2,4],"high":[3,1,2,4],"low":[3,1,2,4],
		"close":[103.5,101.5,102.5,null],"volume":[10,10,10,10]}]}}],"error":null}}`
	var gotPath string
	srv := serve(t, http.StatusOK, body, func(r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
	})

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	ps, err := f.FetchPriceSeries(context.Background(), "SPX500", "1d", 2)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Equal(t, []float64{102.5, 103.5}, ps.Closes)
	require.Len(t, ps.Times, 2)
	assert.True(t, ps.Times[0].Before(ps.Times[1]))
	assert.Equal(t, "SPX500", ps.Symbol)
}

func TestYahooFetcher_Errors(t *testing.T) {
	notFound := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	srv := serve(t, http.StatusNotFound, notFound, nil)
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchPriceSeries(context.Background(), "NOPE", "1d", 10)
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	empty := serve(t, http.StatusOK, `{"chart":{"result":[],"error":null}}`, nil)
	f.BaseURL = empty.URL
	_, err = f.FetchPriceSeries(context.Background(), "SPY", "1d", 10)
	assert.ErrorIs(t, err, ErrNoData)

	limited := serve(t, http.StatusTooManyRequests, `Too Many Requests`, nil)
	f.BaseURL = limited.URL
	_, err = f.FetchPriceSeries(context.Background(), "SPY", "1d", 10)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestYahooRange(t *testing.T) {
	assert.Equal(t, "1y", yahooRange("1d", 200))
	assert.Equal(t, "2y", yahooRange("1d", 300))
	assert.Equal(t, "1mo", yahooRange("60m", 100))
	assert.Equal(t, "1y", yahooRange("1wk", 52))
}

func TestAlphaVantageFetcher_Intraday(t *testing.T) {
	body := `{"Meta Data":{"2. Symbol":"IBM"},"Time Series (60min)":{
		"2024-01-02 11:00:00":{"1. open":"1","2. high":"1","3. low":"1","4. close":"161.20","5. volume":"5"},
		"2024-01-02 10:00:00":{"1. open":"1","2. high":"1","3. low":"1","4. close":"160.10","5. volume":"5"},
		"2024-01-02 12:00:00":{"1. open":"1","2. high":"1","3. low":"1","4. close":"162.30","5. volume":"5"}}}`
	srv := serve(t, http.StatusOK, body, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "TIME_SERIES_INTRADAY", q.Get("function"))
		assert.Equal(t, "60min", q.Get("interval"))
		assert.Equal(t, "IBM", q.Get("symbol"))
		assert.Equal(t, "key", q.Get("apikey"))
		assert.Equal(t, "compact", q.Get("outputsize"))
	})

	f := NewAlphaVantageFetcher("key", "")
	f.BaseURL = srv.URL
	ps, err := f.FetchPriceSeries(context.Background(), "IBM", "60min", 100)
	require.NoError(t, err)
	assert.Equal(t, []float64{160.10, 161.20, 162.30}, ps.Closes)
}

func TestAlphaVantageFetcher_Errors(t *testing.T) {
	f := NewAlphaVantageFetcher("key", "")

	srv := serve(t, http.StatusOK, `{"Error Message":"Invalid API call."}`, nil)
	f.BaseURL = srv.URL
	_, err := f.FetchPriceSeries(context.Background(), "NOPE", "60min", 100)
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	srv = serve(t, http.StatusOK, `{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, nil)
	f.BaseURL = srv.URL
	_, err = f.FetchPriceSeries(context.Background(), "IBM", "60min", 100)
	assert.ErrorIs(t, err, ErrRateLimited)

	srv = serve(t, http.StatusOK, `{"Meta Data":{}}`, nil)
	f.BaseURL = srv.URL
	_, err = f.FetchPriceSeries(context.Background(), "IBM", "1d", 100)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBinanceFetcher(t *testing.T) {
	body := `[
		[1499040000000,"0.016","0.80","0.015","0.0150",  "148976.1",1499644799999,"2434.1",308,"1756.8","28.4","0"],
		[1499644800000,"0.015","0.80","0.015","0.0175",  "148976.1",1500249599999,"2434.1",308,"1756.8","28.4","0"]
	]`
	srv := serve(t, http.StatusOK, body, func(r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1h", r.URL.Query().Get("interval"))
		assert.Equal(t, "200", r.URL.Query().Get("limit"))
	})

	f := NewBinanceFetcher("", "", srv.URL, "")
	ps, err := f.FetchPriceSeries(context.Background(), "btcusdt", "60min", 200)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.015, 0.0175}, ps.Closes)
	assert.Equal(t, int64(1499040000000), ps.Times[0].UnixMilli())
}

func TestBinanceFetcher_InvalidSymbol(t *testing.T) {
	srv := serve(t, http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`, nil)
	f := NewBinanceFetcher("", "", srv.URL, "")
	_, err := f.FetchPriceSeries(context.Background(), "NOPE", "1d", 10)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestBinanceInterval(t *testing.T) {
	assert.Equal(t, "1d", binanceInterval(""))
	assert.Equal(t, "1w", binanceInterval("1wk"))
	assert.Equal(t, "15m", binanceInterval("15min"))
	assert.Equal(t, "4h", binanceInterval("4h"))
}

func TestRESTFetcher(t *testing.T) {
	body := `[{"timestamp":200,"close":11},{"timestamp":100,"close":10},{"timestamp":300,"close":12}]`
	srv := serve(t, http.StatusOK, body, func(r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
	})
	f := NewRESTFetcher(srv.URL, "secret", "")
	ps, err := f.FetchPriceSeries(context.Background(), "ABC", "1d", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 12}, ps.Closes)

	missing := serve(t, http.StatusNotFound, ``, nil)
	f.BaseURL = missing.URL
	_, err = f.FetchPriceSeries(context.Background(), "ABC", "1d", 3)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestCollector_FetchThenCompute(t *testing.T) {
	col := NewCollector(&MockFetcher{Price: 100}, "TEST", "1h", 300, calculator.DefaultParams())
	series, err := col.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TEST", series.Symbol)
	assert.Equal(t, 300, series.Len())

	ind, err := col.Compute(series)
	require.NoError(t, err)
	assert.Same(t, series, ind.Series)
	assert.Len(t, ind.RSI, 299)
	assert.Equal(t, series.Last(), ind.Latest.Close)
}

func TestCollector_ErrorsAreDistinguishable(t *testing.T) {
	col := NewCollector(&MockFetcher{Err: ErrInvalidSymbol}, "NOPE", "1d", 300, calculator.DefaultParams())
	_, err := col.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	assert.False(t, errors.Is(err, calculator.ErrInsufficientData))

	col = NewCollector(&MockFetcher{Price: 100}, "SHORT", "1d", 10, calculator.DefaultParams())
	series, err := col.Fetch(context.Background())
	require.NoError(t, err)
	_, err = col.Compute(series)
	assert.ErrorIs(t, err, calculator.ErrInsufficientData)
	assert.False(t, errors.Is(err, ErrInvalidSymbol))
}
