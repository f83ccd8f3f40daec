package pickup

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/compose"
	"tableflip.dev/pitstop/pkg/pickup"
	"tableflip.dev/pitstop/pkg/printers"
	"tableflip.dev/pitstop/pkg/store"
)

// Pickup runs the pickup flow for one service record without a terminal UI.
// With no action set it prints the record and the drafts it would send.
type Pickup struct {
	Service   *app.Service
	ID        int
	ContactID int
	All       bool
	Skip      bool
	// Message replaces the drafted text when sending to one contact.
	Message string
	Confirm func(prompt string) bool

	// Handoff is set after a successful send.
	Handoff *compose.Handoff
}

func (n *Pickup) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not run pickup, no service")
	}
	if n.actions() > 1 {
		return errors.New("choose one of --contact, --all or --skip")
	}

	flow := n.Service.Pickup(n.ID)
	if err := flow.Load(ctx); err != nil {
		return err
	}

	pp := printers.PrettyPrint{Location: n.Service.Location}
	var confirm pickup.Confirmer
	if n.Confirm != nil {
		confirm = pickup.ConfirmFunc(n.Confirm)
	}

	switch {
	case n.Skip:
		if !flow.Skip(confirm) {
			pp.Failed("Pickup not skipped.")
			return nil
		}
		n.Service.Note(store.ActionSkip, fmt.Sprintf("service record %d", n.ID), nil)
		pp.Done("Pickup skipped, no message sent.")
		return nil

	case n.All:
		sum, ok, err := flow.SendAll(ctx, confirm)
		if err != nil {
			return err
		}
		if !ok {
			pp.Failed("Nothing sent.")
			return nil
		}
		n.Service.Note(store.ActionSendAll, fmt.Sprintf("service record %d: %s", n.ID, sum), nil)
		for _, f := range sum.Failures {
			pp.Failed(fmt.Sprintf("%s: %s", f.Contact, f.Detail))
		}
		pp.Done(sum.String())
		n.Handoff = &sum.Handoff
		return nil

	case n.ContactID != 0:
		if _, err := flow.Compose(n.ContactID); err != nil {
			return err
		}
		if n.Message != "" {
			if err := flow.Edit(n.Message); err != nil {
				return err
			}
		}
		out, res := flow.Send(ctx)
		if !res.OK {
			return res.Error()
		}
		pp.Done(out.Confirmation)
		n.Handoff = &out.Handoff
		return nil
	}

	r := flow.Record()
	pp.NewLine()
	pp.ServiceRecord(r, flow.PickupSent())
	pp.Title("Contacts")
	pp.Contacts(flow.Contacts()...)
	if flow.PickupSent() {
		_, _ = color.New(color.FgYellow).Fprintln(color.Output, "A pickup message was already sent for this service.")
	}
	for _, c := range flow.Contacts() {
		d, err := flow.Compose(c.ID)
		if err != nil {
			return err
		}
		pp.Title("Draft for " + c.Name)
		_, _ = fmt.Fprintln(color.Output, d.Message)
		pp.NewLine()
	}
	flow.CloseComposer()
	return nil
}

func (n *Pickup) actions() int {
	count := 0
	for _, set := range []bool{n.ContactID != 0, n.All, n.Skip} {
		if set {
			count++
		}
	}
	return count
}
