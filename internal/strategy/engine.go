package strategy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"SignalSentinel/internal/model"
)

// ErrUnknownPolicy is returned when no rule is registered under a policy name.
var ErrUnknownPolicy = errors.New("unknown signal policy")

// Policy names a classification rule.
type Policy string

const (
	// PolicyRSIMACD confirms RSI extremes with a MACD crossover (policy A).
	PolicyRSIMACD Policy = "rsi_macd"
	// PolicyRSISMA confirms RSI extremes with price against SMA50 (policy B).
	PolicyRSISMA Policy = "rsi_sma"
)

// DefaultPolicy is used when none is configured.
const DefaultPolicy = PolicyRSIMACD

// Thresholds are the RSI levels the rules compare against.
type Thresholds struct {
	Oversold   float64
	Overbought float64
}

// DefaultThresholds returns the conventional 30/70 RSI bands.
func DefaultThresholds() Thresholds {
	return Thresholds{Oversold: 30, Overbought: 70}
}

// Rule maps the latest indicator values to a signal.
type Rule interface {
	Classify(in model.SignalInputs, th Thresholds) model.SignalType
	// Explain formats the contributing values.
	Explain(in model.SignalInputs) string
}

var (
	rulesMu sync.RWMutex
	rules   = map[Policy]Rule{
		PolicyRSIMACD: rsiMACDRule{},
		PolicyRSISMA:  rsiSMARule{},
	}
)

// Register adds or replaces the rule for a policy. Safe to call while
// other goroutines classify.
func Register(p Policy, r Rule) {
	rulesMu.Lock()
	defer rulesMu.Unlock()
	rules[p] = r
}

func lookup(p Policy) (Rule, bool) {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	r, ok := rules[p]
	return r, ok
}

// Policies lists the registered policy names in sorted order.
func Policies() []Policy {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	out := make([]Policy, 0, len(rules))
	for p := range rules {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParsePolicy resolves a configured policy name. "A" and "B" are accepted as aliases.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a", string(PolicyRSIMACD):
		return PolicyRSIMACD, nil
	case "b", string(PolicyRSISMA):
		return PolicyRSISMA, nil
	}
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := lookup(p); ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Engine classifies indicator values with one configured policy.
type Engine struct {
	Policy     Policy
	Thresholds Thresholds
}

// NewEngine returns an engine for the given policy with default thresholds.
func NewEngine(p Policy) *Engine {
	return &Engine{Policy: p, Thresholds: DefaultThresholds()}
}

// Evaluate classifies the latest values of an indicator set.
func (e *Engine) Evaluate(ind *model.IndicatorSet) (*model.TradeSignal, error) {
	return ClassifyWith(ind.Latest.Inputs(), e.Policy, e.Thresholds)
}

// Classify runs a policy with default thresholds.
func Classify(in model.SignalInputs, p Policy) (*model.TradeSignal, error) {
	return ClassifyWith(in, p, DefaultThresholds())
}

// ClassifyWith runs a policy with explicit thresholds. It fails only for an
// unregistered policy.
func ClassifyWith(in model.SignalInputs, p Policy, th Thresholds) (*model.TradeSignal, error) {
	rule, ok := lookup(p)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, p)
	}
	return &model.TradeSignal{
		Type:        rule.Classify(in, th),
		Explanation: rule.Explain(in),
		Policy:      string(p),
		Inputs:      in,
	}, nil
}
