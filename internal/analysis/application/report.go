package application

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/convrisk/internal/analysis/domain"
	"github.com/felixgeelhaar/convrisk/internal/numeric"
)

// Report is the full analysis of one conversion.
type Report struct {
	Conversion domain.Conversion
	MinGood    domain.Bound
	MaxGood    domain.Bound
	Risk       domain.TruncationRisk
}

// CheckResult is a Report applied to one concrete value.
type CheckResult struct {
	Report    *Report
	Value     numeric.Value
	Overflows bool
	Truncates bool
}

// Render formats the report for terminal output.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "conversion: %s\n", r.Conversion)
	fmt.Fprintf(&b, "plan:       %s\n", r.Conversion.Sequence())
	fmt.Fprintf(&b, "overflow below: %s\n", describeBound(r.MinGood, "min good input"))
	fmt.Fprintf(&b, "overflow above: %s\n", describeBound(r.MaxGood, "max good input"))
	fmt.Fprintf(&b, "truncation:     %s\n", r.Risk)
	return b.String()
}

func describeBound(b domain.Bound, label string) string {
	if b.CannotOverflow() {
		return "impossible"
	}
	return fmt.Sprintf("possible (%s %s)", label, b.Value())
}

// Render formats the check result for terminal output.
func (c *CheckResult) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "value %s via %s:\n", c.Value, c.Report.Conversion)
	if c.Overflows {
		b.WriteString("  overflow:   yes\n")
	} else {
		b.WriteString("  overflow:   no\n")
	}
	if c.Truncates {
		fmt.Fprintf(&b, "  truncation: yes (%s)\n", c.Report.Risk)
	} else {
		b.WriteString("  truncation: no\n")
	}
	return b.String()
}
