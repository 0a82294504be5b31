// Package application exposes the conversion-risk engine as a service: it
// parses conversion specs, runs the analyzers, caches the pure results, and
// guards runtime conversions with a caller-chosen overflow policy.
package application

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/felixgeelhaar/convrisk/internal/analysis/domain"
	"github.com/felixgeelhaar/convrisk/internal/magnitude"
	"github.com/felixgeelhaar/convrisk/internal/numeric"
	"github.com/felixgeelhaar/convrisk/pkg/observability"
)

// ErrWouldOverflow is returned by Convert under PolicyReject when the input
// value lies outside the conversion's good range.
var ErrWouldOverflow = errors.New("value would overflow conversion")

// ErrUnknownPolicy rejects policy names ParsePolicy does not recognize.
var ErrUnknownPolicy = errors.New("unknown overflow policy")

// ConversionSpec names a conversion in user terms: textual rep names and an
// exact factor expression.
type ConversionSpec struct {
	From   string
	To     string
	Factor string
}

// Policy decides what Convert does with a value the analysis flags as
// overflowing. Truncation is never a policy matter: it is reported, and the
// conversion proceeds with native semantics.
type Policy int

const (
	// PolicyReject fails the conversion with ErrWouldOverflow.
	PolicyReject Policy = iota
	// PolicyClamp saturates the input at the good-range boundary first.
	PolicyClamp
	// PolicyAllow converts anyway; the caller has acknowledged the risk.
	PolicyAllow
)

// ParsePolicy reads a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return PolicyReject, nil
	case "clamp":
		return PolicyClamp, nil
	case "allow":
		return PolicyAllow, nil
	default:
		return PolicyReject, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyClamp:
		return "clamp"
	case PolicyAllow:
		return "allow"
	default:
		return "reject"
	}
}

// Analyzer runs and caches conversion analyses. Analysis results are pure
// functions of the spec, so the cache never invalidates.
type Analyzer struct {
	logger  *slog.Logger
	metrics observability.Metrics

	mu   sync.RWMutex
	memo map[string]*Report
}

// NewAnalyzer creates an analyzer service.
func NewAnalyzer(logger *slog.Logger, metrics observability.Metrics) *Analyzer {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Analyzer{
		logger:  logger,
		metrics: metrics,
		memo:    make(map[string]*Report),
	}
}

// Analyze plans the conversion and computes its overflow bounds and
// truncation risk.
func (a *Analyzer) Analyze(spec ConversionSpec) (*Report, error) {
	from, to, factor, err := parseSpec(spec)
	if err != nil {
		return nil, err
	}

	key := from.String() + "|" + to.String() + "|" + factor.Key()
	a.mu.RLock()
	cached, ok := a.memo[key]
	a.mu.RUnlock()
	if ok {
		a.metrics.Counter(observability.MetricAnalysesCached, 1)
		return cached, nil
	}

	report, err := observability.TimeOperationResult(a.logger, a.metrics, "analysis.build",
		func() (*Report, error) { return buildReport(from, to, factor) })
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.memo[key] = report
	a.mu.Unlock()
	a.metrics.Counter(observability.MetricAnalysesTotal, 1)
	a.logger.Debug("analyzed conversion",
		"from", from.String(), "to", to.String(), "factor", factor.String())
	return report, nil
}

// Check runs one concrete value against an analyzed conversion without
// performing it.
func (a *Analyzer) Check(spec ConversionSpec, value string) (*CheckResult, error) {
	report, err := a.Analyze(spec)
	if err != nil {
		return nil, err
	}
	v, err := numeric.ParseValue(report.Conversion.From(), value)
	if err != nil {
		return nil, err
	}

	overflows, err := domain.WouldOverflow(report.Conversion.Sequence(), v)
	if err != nil {
		return nil, err
	}
	a.metrics.Counter(observability.MetricChecksTotal, 1)
	return &CheckResult{
		Report:    report,
		Value:     v,
		Overflows: overflows,
		Truncates: report.Risk.Truncates(v),
	}, nil
}

// Convert performs the conversion on one value under the given policy.
func (a *Analyzer) Convert(spec ConversionSpec, value string, policy Policy) (numeric.Value, error) {
	check, err := a.Check(spec, value)
	if err != nil {
		return numeric.Value{}, err
	}

	a.metrics.Counter(observability.MetricConversionsTotal, 1)
	v := check.Value
	if check.Overflows {
		switch policy {
		case PolicyReject:
			a.metrics.Counter(observability.MetricConversionsRejected, 1)
			return numeric.Value{}, fmt.Errorf("%w: %s via %s",
				ErrWouldOverflow, v, check.Report.Conversion)
		case PolicyClamp:
			v = clampToGoodRange(v, check.Report)
			a.metrics.Counter(observability.MetricConversionsClamped, 1)
			a.logger.Warn("clamped overflowing value",
				"value", check.Value.String(), "clamped", v.String())
		case PolicyAllow:
			a.logger.Warn("converting overflowing value",
				"value", v.String(), "conversion", check.Report.Conversion.String())
		}
	}

	return domain.ApplyConversion(check.Report.Conversion, v)
}

func clampToGoodRange(v numeric.Value, report *Report) numeric.Value {
	if !report.MinGood.CannotOverflow() && v.Cmp(report.MinGood.Value()) < 0 {
		return report.MinGood.Value()
	}
	if !report.MaxGood.CannotOverflow() && v.Cmp(report.MaxGood.Value()) > 0 {
		return report.MaxGood.Value()
	}
	return v
}

func parseSpec(spec ConversionSpec) (from, to numeric.Rep, factor magnitude.Magnitude, err error) {
	if from, err = numeric.ParseRep(spec.From); err != nil {
		return from, to, factor, fmt.Errorf("source rep: %w", err)
	}
	if to, err = numeric.ParseRep(spec.To); err != nil {
		return from, to, factor, fmt.Errorf("destination rep: %w", err)
	}
	if spec.Factor == "" {
		factor = magnitude.One()
		return from, to, factor, nil
	}
	if factor, err = magnitude.Parse(spec.Factor); err != nil {
		return from, to, factor, fmt.Errorf("factor: %w", err)
	}
	return from, to, factor, nil
}

func buildReport(from, to numeric.Rep, factor magnitude.Magnitude) (*Report, error) {
	conv, err := domain.NewConversion(from, to, factor)
	if err != nil {
		return nil, err
	}
	seq := conv.Sequence()

	minGood, err := domain.MinGood(seq)
	if err != nil {
		return nil, err
	}
	maxGood, err := domain.MaxGood(seq)
	if err != nil {
		return nil, err
	}

	return &Report{
		Conversion: conv,
		MinGood:    minGood,
		MaxGood:    maxGood,
		Risk:       domain.TruncationRiskFor(seq),
	}, nil
}
