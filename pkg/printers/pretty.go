package printers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/msglist"
	"tableflip.dev/pitstop/pkg/shop"
	"tableflip.dev/pitstop/pkg/timeutil"
)

type PrettyPrint struct {
	ShowID   bool
	Location *time.Location
}

var (
	spacing = strings.Repeat(" ", len("#000000  "))
)

func (pp *PrettyPrint) loc() *time.Location {
	if pp.Location == nil {
		return time.Local
	}
	return pp.Location
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(color.Output, "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(color.Output, spacing)
	}
	_, _ = t.Fprintln(color.Output, title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(color.Output, spacing)
	}
	_, _ = t.Fprint(color.Output, title)
	_, _ = c.Fprintf(color.Output, " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(color.Output, " message")
	default:
		_, _ = c.Fprintln(color.Output, " messages")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(color.Output, spacing)
	}
	_, _ = f.Fprint(color.Output, " none\n\n")
}

func statusColor(class shop.Status) *color.Color {
	switch class {
	case shop.Sent:
		return color.New(color.FgGreen)
	case shop.Failed:
		return color.New(color.FgRed)
	case shop.Canceled:
		return color.New(color.Faint)
	default:
		return color.New(color.FgYellow)
	}
}

// Messages prints one block per card.
func (pp *PrettyPrint) Messages(cards ...msglist.Card) {
	if len(cards) == 0 {
		pp.none()
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	b := color.New(color.Bold)
	f := color.New(color.Faint)
	indent := ""
	if pp.ShowID {
		indent = spacing
	}

	for _, c := range cards {
		if pp.ShowID {
			id := "#" + strconv.Itoa(c.ID)
			_, _ = y.Fprint(color.Output, id)
			_, _ = y.Fprint(color.Output, strings.Repeat(" ", max(1, len(spacing)-len(id))))
		}
		st := statusColor(c.Class)
		_, _ = st.Fprintf(color.Output, "%s %-8s ", c.Class.Symbol(), c.Status)
		_, _ = b.Fprintf(color.Output, "%s", c.Kind)
		_, _ = fmt.Fprintf(color.Output, " to %s (%s)\n", c.Contact, c.Phone)
		if c.Vehicle != "" || c.Vin != "" {
			_, _ = f.Fprintf(color.Output, "%s  %s %s\n", indent, c.Vehicle, c.Vin)
		}
		_, _ = f.Fprintf(color.Output, "%s  scheduled %s · sent %s · created %s\n", indent, c.Scheduled, c.SentAt, c.Created)
		_, _ = fmt.Fprintf(color.Output, "%s  %s\n", indent, c.Body)
	}
	pp.NewLine()
}

// Inbound prints received messages, newest as listed by the backend.
func (pp *PrettyPrint) Inbound(cards ...msglist.InboundCard) {
	if len(cards) == 0 {
		pp.none()
		return
	}
	b := color.New(color.Bold)
	f := color.New(color.Faint)
	for _, c := range cards {
		_, _ = b.Fprint(color.Output, c.Sender)
		_, _ = f.Fprintf(color.Output, " %s · %s\n", c.From, c.Received)
		_, _ = fmt.Fprintf(color.Output, "  %s\n", c.Body)
	}
	pp.NewLine()
}

// Unread prints the badge text, or a faint note when nothing is waiting.
func (pp *PrettyPrint) Unread(count int) {
	if count <= 0 {
		_, _ = color.New(color.Faint).Fprintln(color.Output, "No unread messages.")
		return
	}
	_, _ = color.New(color.FgRed, color.Bold).Fprintf(color.Output, "[%d]", count)
	_, _ = fmt.Fprintln(color.Output, " unread")
}

// Vin prints a vehicle with its contacts and service history.
func (pp *PrettyPrint) Vin(v *shop.Vin) {
	pp.Title(fmt.Sprintf("%s  %s", v.Label(), v.Vin))

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), v.ID)
	if v.Trim != "" {
		tbl.AddRow(bold.Sprint("Trim"), v.Trim)
	}
	if v.Plate != "" {
		tbl.AddRow(bold.Sprint("Plate"), v.Plate)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()

	pp.Title("Contacts")
	pp.Contacts(v.Contacts...)

	pp.Title("Service records")
	pp.ServiceRecords(v.ServiceRecords...)
}

func (pp *PrettyPrint) Contacts(contacts ...shop.Contact) {
	if len(contacts) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Phone"), bold.Sprint("Email"))
	for _, c := range contacts {
		tbl.AddRow(c.ID, c.Name, c.PhoneNumber, c.Email)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

// ServiceRecords prints a table with the most recent record highlighted.
func (pp *PrettyPrint) ServiceRecords(records ...shop.ServiceRecord) {
	if len(records) == 0 {
		pp.none()
		return
	}
	latest := shop.MostRecent(records)
	bold := color.New(color.Bold)
	hi := color.New(color.FgCyan)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Date"), bold.Sprint("Mileage"), bold.Sprint("Oil"), bold.Sprint("Next due"))
	for i := range records {
		r := &records[i]
		row := []interface{}{
			r.ID,
			r.ServiceDate.Short(pp.loc()),
			r.MileageAtService,
			fmt.Sprintf("%s (%s)", r.OilLabel(), r.OilViscosity),
			fmt.Sprintf("%d on %s", r.NextServiceMileageDue, r.NextServiceDateDue.Short(pp.loc())),
		}
		if r == latest {
			for j, cell := range row {
				row[j] = hi.Sprint(cell)
			}
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

// ServiceRecord prints one record and its vehicle.
func (pp *PrettyPrint) ServiceRecord(r *shop.ServiceRecord, pickupSent bool) {
	title := fmt.Sprintf("Service record %d", r.ID)
	if r.Vin != nil {
		title += " · " + r.Vin.Label()
	}
	pp.Title(title)
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Date"), r.ServiceDate.Short(pp.loc()))
	tbl.AddRow(bold.Sprint("Mileage"), r.MileageAtService)
	tbl.AddRow(bold.Sprint("Oil"), fmt.Sprintf("%s (%s)", r.OilLabel(), r.OilViscosity))
	tbl.AddRow(bold.Sprint("Next due"), fmt.Sprintf("%d on %s", r.NextServiceMileageDue, r.NextServiceDateDue.Short(pp.loc())))
	if r.Notes != "" {
		tbl.AddRow(bold.Sprint("Notes"), r.Notes)
	}
	if pickupSent {
		tbl.AddRow(bold.Sprint("Pickup"), color.New(color.FgGreen).Sprint("sent"))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

// Timestamp formats t in the printer's zone.
func (pp *PrettyPrint) Timestamp(t time.Time) string {
	if t.IsZero() {
		return timeutil.FormatLocal(t)
	}
	return timeutil.FormatLocal(t.In(pp.loc()))
}

// Decoded prints what the VIN decoder resolved. Unknown fields show as "?".
func (pp *PrettyPrint) Decoded(d api.DecodedVin) {
	pp.Title(d.Vin)
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Make"), orUnknown(d.Make))
	tbl.AddRow(bold.Sprint("Model"), orUnknown(d.Model))
	year := "?"
	if d.Year != nil {
		year = strconv.Itoa(*d.Year)
	}
	tbl.AddRow(bold.Sprint("Year"), year)
	tbl.AddRow(bold.Sprint("Trim"), orUnknown(d.Trim))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return "?"
	}
	return *s
}

// Done prints a success line.
func (pp *PrettyPrint) Done(msg string) {
	_, _ = color.New(color.FgGreen).Fprint(color.Output, "✔ ")
	_, _ = fmt.Fprintln(color.Output, msg)
}

// Failed prints a failure line.
func (pp *PrettyPrint) Failed(msg string) {
	_, _ = color.New(color.FgRed).Fprint(color.Output, "✘ ")
	_, _ = fmt.Fprintln(color.Output, msg)
}
