package strategy

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// rsiMACDRule: BUY when oversold with MACD above its signal line, SELL when
// overbought with MACD below it.
type rsiMACDRule struct{}

func (rsiMACDRule) Classify(in model.SignalInputs, th Thresholds) model.SignalType {
	if !in.HasMACD {
		return model.SignalHold
	}
	switch {
	case in.RSI < th.Oversold && in.MACD > in.MACDSignal:
		return model.SignalBuy
	case in.RSI > th.Overbought && in.MACD < in.MACDSignal:
		return model.SignalSell
	default:
		return model.SignalHold
	}
}

func (rsiMACDRule) Explain(in model.SignalInputs) string {
	return explain(in, "MACD", in.MACD)
}

// rsiSMARule: BUY when oversold while price holds above SMA50, SELL when
// overbought while price sits below it.
type rsiSMARule struct{}

func (rsiSMARule) Classify(in model.SignalInputs, th Thresholds) model.SignalType {
	switch {
	case in.RSI < th.Oversold && in.Close > in.SMA50:
		return model.SignalBuy
	case in.RSI > th.Overbought && in.Close < in.SMA50:
		return model.SignalSell
	default:
		return model.SignalHold
	}
}

func (rsiSMARule) Explain(in model.SignalInputs) string {
	return explain(in, "Price", in.Close)
}

func explain(in model.SignalInputs, label string, v float64) string {
	return fmt.Sprintf("RSI: %.2f, SMA50: %.2f, SMA200: %.2f, %s: %.2f", in.RSI, in.SMA50, in.SMA200, label, v)
}
