// Package output renders reports and lot views for the terminal or for
// machine consumption.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"

	"github.com/vsinha/lottrack/pkg/application/dto"
)

// Formats accepted by the renderers
const (
	FormatText = "text"
	FormatJSON = "json"
)

// RenderDashboard writes a dashboard in the given format
func RenderDashboard(w io.Writer, d *dto.Dashboard, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, d)
	case FormatText, "":
		return renderDashboardText(w, d)
	default:
		return errors.Newf("unknown output format %q (expected text or json)", format)
	}
}

// RenderLotView writes a consolidated lot view in the given format
func RenderLotView(w io.Writer, v *dto.ConsolidatedLotView, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, v)
	case FormatText, "":
		return renderLotViewText(w, v)
	default:
		return errors.Newf("unknown output format %q (expected text or json)", format)
	}
}

// RenderLotList writes the consolidated view of every lot as a table or
// as JSON
func RenderLotList(w io.Writer, views []*dto.ConsolidatedLotView, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, views)
	case FormatText, "":
	default:
		return errors.Newf("unknown output format %q (expected text or json)", format)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Lot\tPart\tLine(s)\tShipping\tIssues")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			v.LotIdentifier, v.PartNumber, v.LineAttribution(),
			v.ShippingStatus, v.DefectSummary())
	}
	return tw.Flush()
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encoding output")
	}
	return nil
}

func renderDashboardText(w io.Writer, d *dto.Dashboard) error {
	fmt.Fprintf(w, "Lot Tracking Dashboard (%s)\n", d.TimeGrouping)
	fmt.Fprintf(w, "Period: %s to %s\n", d.PeriodStart.Format("2006-01-02"), d.PeriodEnd.Format("2006-01-02"))
	fmt.Fprintf(w, "Report: %s generated %s\n\n", d.ReportID, d.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "LINE RANKINGS (defects this period)")
	if len(d.LineRankings) == 0 {
		fmt.Fprintln(w, "  no flagged defects this period")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  Rank\tLine\tDefects")
		for _, r := range d.LineRankings {
			fmt.Fprintf(tw, "  %d\t%s\t%d\n", r.Rank, r.LineName, r.DefectCount)
		}
		tw.Flush()
	}

	fmt.Fprintln(w, "\nDEFECT TRENDS")
	if len(d.DefectTrends) == 0 {
		fmt.Fprintln(w, "  no defect activity this period")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  Defect\tSeverity\tCurrent\tPrevious\tDirection")
		for _, t := range d.DefectTrends {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\t%s\n",
				t.DefectName, t.Severity, t.CurrentCount, t.PreviousCount, t.Direction)
		}
		tw.Flush()
	}

	fmt.Fprintln(w, "\nSHIPPING RISKS (shipped with flagged defects)")
	if len(d.ShippingRisks) == 0 {
		fmt.Fprintln(w, "  none")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  Lot\tCustomer\tShipped\tDefect\tSeverity")
		for _, r := range d.ShippingRisks {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
				r.LotIdentifier, r.CustomerName, r.ShipDate.Format("2006-01-02"),
				r.DefectName, r.Severity)
		}
		tw.Flush()
	}

	fmt.Fprintln(w, "\nDATA INTEGRITY")
	if len(d.OrphanedLots) == 0 && len(d.LineConflicts) == 0 {
		fmt.Fprintln(w, "  no orphans, no conflicts")
	}
	for _, o := range d.OrphanedLots {
		fmt.Fprintf(w, "  orphan: %s (%s) - %s\n", o.LotIdentifier, o.PartNumber, o.Status)
	}
	for _, c := range d.LineConflicts {
		fmt.Fprintf(w, "  conflict: %s recorded on %d lines (%s)\n",
			c.LotIdentifier, c.LineCount, strings.Join(c.LineNames, ", "))
	}
	return nil
}

func renderLotViewText(w io.Writer, v *dto.ConsolidatedLotView) error {
	fmt.Fprintf(w, "Lot %s (part %s, created %s)\n",
		v.LotIdentifier, v.PartNumber, v.CreatedDate.Format("2006-01-02"))

	fmt.Fprintf(w, "  Production: %s\n", v.LineAttribution())
	if len(v.ProductionLines) > 0 {
		fmt.Fprintf(w, "  Units: %d planned, %d actual (yield %s)\n",
			v.TotalUnitsPlanned, v.TotalUnitsActual, v.Yield.StringFixed(3))
		fmt.Fprintf(w, "  Downtime: %d minutes\n", v.TotalDowntimeMinutes)
	}

	fmt.Fprintf(w, "  Issues: %s\n", v.DefectSummary())

	fmt.Fprintf(w, "  Shipping: %s", v.ShippingStatus)
	if v.ShipDate != nil {
		fmt.Fprintf(w, " on %s to %s", v.ShipDate.Format("2006-01-02"), v.CustomerName)
	}
	fmt.Fprintln(w)

	if v.Source.File != "" {
		fmt.Fprintf(w, "  Source: %s row %d\n", v.Source.File, v.Source.Row)
	}
	return nil
}
