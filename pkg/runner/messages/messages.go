package messages

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/msglist"
	"tableflip.dev/pitstop/pkg/printers"
	"tableflip.dev/pitstop/pkg/tabs"
)

// List prints one message category for the dashboard or one vehicle.
type List struct {
	Service *app.Service
	Scope   tabs.Scope
	Tab     tabs.Tab
	Date    string
	ShowID  bool
	JSON    bool
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list, no service")
	}
	tab := n.Tab
	if tab == "" {
		tab = n.Scope.DefaultTab()
	}
	page, err := n.Service.Messages(ctx, n.Scope, tab, n.Date)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(page.Messages)
	}

	cards := msglist.Render(page.Messages, msglist.Policy{WithCancel: true}, n.Service.Location)
	title := tab.Title()
	if page.VehicleInfo != "" {
		title += " for " + page.VehicleInfo
	}
	if page.DateFilter != "" {
		title += " on " + page.DateFilter
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Location: n.Service.Location}
	pp.NewLine()
	pp.TitleWithCount(title, page.Total)
	pp.Messages(cards.Cards()...)
	return nil
}

// Cancel cancels one pending message after asking Confirm.
type Cancel struct {
	Service *app.Service
	ID      int
	Confirm func(prompt string) bool
}

func (n *Cancel) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not cancel, no service")
	}
	// Only a listed, pending message carries the cancel affordance.
	page, err := n.Service.Messages(ctx, tabs.Master, tabs.All, "")
	if err != nil {
		return err
	}
	cards := msglist.Render(page.Messages, msglist.Policy{WithCancel: true}, n.Service.Location)
	var confirm msglist.Confirmer
	if n.Confirm != nil {
		confirm = msglist.ConfirmFunc(n.Confirm)
	}
	cards.AttachCancel(n.Service.Backend, confirm)

	canceled, err := cards.Click(ctx, n.ID)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	if !canceled {
		pp.Failed(fmt.Sprintf("Message %d left scheduled.", n.ID))
		return nil
	}
	pp.Done(fmt.Sprintf("Message %d canceled.", n.ID))
	return nil
}
