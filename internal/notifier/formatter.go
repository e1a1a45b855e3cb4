package notifier

import (
	"fmt"
	"strings"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
)

var signalIcon = map[model.SignalType]string{
	model.SignalBuy:  "🟢",
	model.SignalSell: "🔴",
	model.SignalHold: "⚪",
}

// FormatSignalReport formats the latest accepted snapshot.
func FormatSignalReport(snap *model.Snapshot) string {
	var b strings.Builder
	ind := snap.Indicators
	sig := snap.Signal

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s | %s\n\n", ind.Series.Symbol, ind.Series.Interval,
		snap.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Signal: %s <b>%s</b> (%s)\n", signalIcon[sig.Type], sig.Type, sig.Policy))
	b.WriteString(fmt.Sprintf("Explanation: %s\n\n", sig.Explanation))

	l := ind.Latest
	b.WriteString(fmt.Sprintf("Price: %.2f\n", l.Close))
	b.WriteString(fmt.Sprintf("SMA%d: %.2f | SMA%d: %.2f\n", ind.SMAFastPeriod, l.SMAFast, ind.SMASlowPeriod, l.SMASlow))
	b.WriteString(fmt.Sprintf("RSI%d: %.2f\n", ind.RSIPeriod, l.RSI))
	if l.HasMACD {
		b.WriteString(fmt.Sprintf("MACD: %.4f | Signal: %.4f\n", l.MACD, l.MACDSignal))
	}
	return b.String()
}

// FormatSignalChange formats the notification raised when the signal changes.
func FormatSignalChange(prev model.SignalType, snap *model.Snapshot) string {
	sig := snap.Signal
	from := string(prev)
	if from == "" {
		from = "—"
	}
	return fmt.Sprintf("🔔 <b>%s signal changed</b>: %s → %s %s\n%s",
		snap.Indicators.Series.Symbol, from, signalIcon[sig.Type], sig.Type, sig.Explanation)
}

// FormatHistory formats recent signal records, newest first.
func FormatHistory(records []recorder.SignalRecord) string {
	if len(records) == 0 {
		return "No signals recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent signals</b>\n\n")
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%s %s %s %.2f RSI=%.2f\n",
			r.Time.Format("01-02 15:04"), signalIcon[model.SignalType(r.Signal)], r.Signal, r.Price, r.RSI))
	}
	return b.String()
}

// HelpText lists the supported chat commands.
const HelpText = "Available commands:\n• /signal — latest signal\n• /refresh — refresh now\n• /history — recent signals"
