// Package output provides utilities for formatting and displaying payout
// reports.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/payout-simulator/internal/analysis"
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/format"
	"github.com/iwvelando/payout-simulator/pkg/mathutil"
)

// Write renders the report in the named format.
func Write(w io.Writer, outputFormat string, report *analysis.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report *analysis.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "--- Payout for structure %s and profile %s ---\n", report.StructureName, report.ProfileName)
	fmt.Fprintf(&b, "Month | Sales         | Commission  | Q-Bonus     | C-Bonus     | Total\n")
	fmt.Fprintf(&b, "_____ | _____________ | ___________ | ___________ | ___________ | ___________\n")
	for _, row := range report.Monthly {
		fmt.Fprintf(&b, "%5d | %13s | %11s | %11s | %11s | %s\n", row.Month,
			format.Currency(row.Sales), format.Currency(row.Commission),
			format.Currency(row.QuarterlyBonus), format.Currency(row.ContinuityBonus),
			format.Currency(row.Total))
	}

	fmt.Fprintf(&b, "\n--- Quarters ---\n")
	for q, total := range report.QuarterTotals {
		fmt.Fprintf(&b, "Q%d | achievement %s | %s\n", total.Quarter,
			format.Percent(report.Input.QuarterlyAchievement[q]), format.Currency(total.Total))
	}

	p := report.Payout
	fmt.Fprintf(&b, "\n--- Summary ---\n")
	fmt.Fprintf(&b, "Total commission:       %s\n", format.Currency(p.TotalCommission))
	fmt.Fprintf(&b, "Total quarterly bonus:  %s\n", format.Currency(p.TotalQuarterlyBonus))
	fmt.Fprintf(&b, "Total continuity bonus: %s\n", format.Currency(p.TotalContinuityBonus))
	fmt.Fprintf(&b, "Total payout:           %s\n", format.Currency(p.TotalPayout))
	fmt.Fprintf(&b, "Yearly revenue:         %s\n", format.Currency(p.YearlyRevenue))
	fmt.Fprintf(&b, "Average achievement:    %s\n", format.Percent(p.AvgAchievement))

	k := report.KPIs
	fmt.Fprintf(&b, "Revenue vs target:      %s\n", format.Percent(k.RevenueVsTargetPct))
	fmt.Fprintf(&b, "Payout of revenue:      %s\n", format.Percent(k.PayoutPctOfRevenue))
	fmt.Fprintf(&b, "Year-end projection:    %s\n", format.Currency(k.YearEndProjection))
	if k.HasNextThreshold {
		fmt.Fprintf(&b, "Next quarterly tier:    %s (%s away)\n",
			format.Percent(k.NextQuarterlyThreshold), format.Percent(k.DistanceToNext))
	}

	fmt.Fprintf(&b, "\n--- Elasticity ---\n")
	for _, r := range report.Ranges {
		fmt.Fprintf(&b, "%-9s | %s per point | ROI %s\n", r.Name, format.Currency(r.Elasticity), format.Ratio(r.ROI))
	}
	fmt.Fprintf(&b, "Revenue per euro at target: %s\n", format.Ratio(report.Marginal.RevenuePerEuroAtTarget))
	fmt.Fprintf(&b, "Recommended minimum target: %s\n", format.Percent(report.Insight.RecommendedTarget))

	r := report.Risk
	fmt.Fprintf(&b, "\n--- Risk: %s ---\n", r.Rating)
	for _, s := range []struct {
		label string
		pct   float64
	}{{"80%", r.Low.PayoutPctProfit}, {"100%", r.Target.PayoutPctProfit}, {"150%", r.High.PayoutPctProfit}} {
		fmt.Fprintf(&b, "Payout at %-4s achievement: %s of profit\n", s.label, format.Percent(s.pct))
	}
	fmt.Fprintf(&b, "%s\n", r.Recommendation)

	m := report.Philosophy
	fmt.Fprintf(&b, "\n--- Philosophy ---\n")
	fmt.Fprintf(&b, "Size of prize: %d/10 %s\n", m.SizeOfPrize.Score, m.SizeOfPrize.Label)
	fmt.Fprintf(&b, "Distribution:  %d/10 %s\n", m.Distribution.Score, m.Distribution.Label)
	fmt.Fprintf(&b, "Psychology:    %d/10 %s\n", m.Psychology.Score, m.Psychology.Label)
	fmt.Fprintf(&b, "Pay mix:       %s\n", format.Percent(m.PayMix.Ratio))

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(&b, "\n--- Recommendations (%s) ---\n", report.Goal)
		for i, rec := range report.Recommendations {
			fmt.Fprintf(&b, "%d. %s [%s impact]\n", i+1, rec.Title, rec.Impact)
			for _, c := range rec.Changes {
				fmt.Fprintf(&b, "   - %s\n", c.Describe())
			}
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(&b, "\n--- Warnings ---\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(&b, "! %s\n", warning)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// CsvFormat outputs the monthly payout schedule in comma-separated value
// format, followed by a totals row.
func CsvFormat(w io.Writer, report *analysis.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, `"month","sales","commission","quarterly bonus","continuity bonus","total"`+"\n")
	for _, row := range report.Monthly {
		fmt.Fprintf(&b, `"%d","%s","%s","%s","%s","%s"`+"\n", row.Month,
			mathutil.FixedCents(row.Sales), mathutil.FixedCents(row.Commission),
			mathutil.FixedCents(row.QuarterlyBonus), mathutil.FixedCents(row.ContinuityBonus),
			mathutil.FixedCents(row.Total))
	}
	p := report.Payout
	fmt.Fprintf(&b, `"total","%s","%s","%s","%s","%s"`+"\n",
		mathutil.FixedCents(p.YearlyRevenue), mathutil.FixedCents(p.TotalCommission),
		mathutil.FixedCents(p.TotalQuarterlyBonus), mathutil.FixedCents(p.TotalContinuityBonus),
		mathutil.FixedCents(p.TotalPayout))

	_, err := io.WriteString(w, b.String())
	return err
}

// CsvString returns the CSV rendering of the report.
func CsvString(report *analysis.Report) string {
	var buf bytes.Buffer
	_ = CsvFormat(&buf, report)
	return buf.String()
}

// JSONFormat outputs the full report as indented JSON.
func JSONFormat(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
