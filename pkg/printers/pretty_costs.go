package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/store"
)

func dollars(d float64) string {
	return fmt.Sprintf("$%.2f", d)
}

// Costs prints the SMS spend summary.
func (pp *PrettyPrint) Costs(sum api.CostSummary) {
	title := "SMS costs · all time"
	if sum.DateFilter != nil && *sum.DateFilter != "" {
		title = "SMS costs · " + *sum.DateFilter
	}
	pp.Title(title)

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", bold.Sprint("Messages"), bold.Sprint("Cost"))
	tbl.AddRow(bold.Sprint("Outbound"), sum.Outbound.Count, dollars(sum.Outbound.TotalDollars))
	tbl.AddRow(bold.Sprint("Inbound"), sum.Inbound.Count, dollars(sum.Inbound.TotalDollars))
	tbl.AddRow(bold.Sprint("Total"), sum.Totals.TotalMessages, bold.Sprint(dollars(sum.Totals.TotalDollars)))
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

// Monthly prints the current-year report, one row per month.
func (pp *PrettyPrint) Monthly(m api.MonthlyCosts) {
	pp.Title(fmt.Sprintf("SMS costs · %d", m.Year))
	if len(m.Months) == 0 {
		pp.none()
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Month"), bold.Sprint("Out"), bold.Sprint("In"), bold.Sprint("Total"), bold.Sprint("Cost"))
	var count int
	var total float64
	for _, mc := range m.Months {
		tbl.AddRow(mc.MonthName, mc.Outbound.Count, mc.Inbound.Count, mc.Total.Count, dollars(mc.Total.Dollars))
		count += mc.Total.Count
		total += mc.Total.Dollars
	}
	tbl.AddRow(bold.Sprint("Year"), "", "", count, bold.Sprint(dollars(total)))
	for i := 1; i <= 4; i++ {
		tbl.RightAlign(i)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

// Journal prints records in the order given.
func (pp *PrettyPrint) Journal(records ...*store.Record) {
	if len(records) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	for _, r := range records {
		mark := ok.Sprint("✔")
		if !r.OK {
			mark = bad.Sprint("✘")
		}
		row := []interface{}{y.Sprint(pp.Timestamp(r.At)), mark, string(r.Action), r.Subject}
		if r.Detail != "" {
			row = append(row, bad.Sprint(r.Detail))
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Report prints a journal report grouped by action.
func (pp *PrettyPrint) Report(res app.ReportResult) {
	pp.Title(fmt.Sprintf("Activity %s → %s", pp.Timestamp(res.Since), pp.Timestamp(res.Until)))
	if res.Total == 0 {
		pp.none()
		return
	}
	f := color.New(color.Faint)
	for _, sec := range res.Sections {
		_, _ = color.New(color.Bold).Fprint(color.Output, string(sec.Action))
		_, _ = f.Fprintf(color.Output, " - %d", len(sec.Records))
		if sec.Failed > 0 {
			_, _ = color.New(color.FgRed).Fprintf(color.Output, " (%d failed)", sec.Failed)
		}
		pp.NewLine()
		pp.Journal(sec.Records...)
	}
	_, _ = f.Fprintf(color.Output, "%d actions, %d failed\n", res.Total, res.Failed)
}
