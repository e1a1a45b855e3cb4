package model

// IndicatorSet holds every series derived from one PriceSeries.
// Each *Offset field is the price index of element 0 of the matching series.
type IndicatorSet struct {
	Series *PriceSeries

	SMAFastPeriod int
	SMASlowPeriod int
	SMAFast       []float64 // same length as Series.Closes
	SMASlow       []float64 // same length as Series.Closes

	RSIPeriod int
	RSI       []float64 // len(Closes)-1, offset 1

	EMAFast       []float64
	EMAFastOffset int
	EMASlow       []float64
	EMASlowOffset int

	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64
	MACDOffset int

	Latest LatestValues
}

// LatestValues are the most recent value of each series.
type LatestValues struct {
	Close      float64
	SMAFast    float64
	SMASlow    float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	HasMACD    bool
}

// Inputs converts the latest values into classifier inputs.
func (l LatestValues) Inputs() SignalInputs {
	return SignalInputs{
		RSI:        l.RSI,
		Close:      l.Close,
		SMA50:      l.SMAFast,
		SMA200:     l.SMASlow,
		MACD:       l.MACD,
		MACDSignal: l.MACDSignal,
		HasMACD:    l.HasMACD,
	}
}
