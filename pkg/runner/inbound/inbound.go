package inbound

import (
	"context"
	"errors"

	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/msglist"
	"tableflip.dev/pitstop/pkg/notify"
	"tableflip.dev/pitstop/pkg/printers"
)

// Inbound marks everything read and prints the inbound messages.
type Inbound struct {
	Service *app.Service
	JSON    bool
}

func (n *Inbound) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not read inbound, no service")
	}
	p, err := n.Service.Poller()
	if err != nil {
		return err
	}
	msgs, res := p.OpenInbound(ctx)
	if !res.OK {
		return res.Error()
	}
	if n.JSON {
		return printers.JSON(msgs)
	}
	pp := printers.PrettyPrint{Location: n.Service.Location}
	pp.NewLine()
	pp.Title("Inbound")
	pp.Inbound(msglist.RenderInbound(msgs, n.Service.Location)...)
	return nil
}

// Unread prints the unread count. With Watch it keeps polling and prints
// every change until ctx is done.
type Unread struct {
	Service *app.Service
	Watch   bool
	JSON    bool
}

func (n *Unread) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not count unread, no service")
	}
	p, err := n.Service.Poller()
	if err != nil {
		return err
	}
	if !n.Watch {
		b, res := p.Poll(ctx)
		if !res.OK {
			return res.Error()
		}
		return n.print(b)
	}

	updates := p.Updates()
	p.Start()
	defer p.Stop()

	last := -1
	for {
		select {
		case <-ctx.Done():
			return nil
		case b := <-updates:
			if b.Count == last {
				continue
			}
			last = b.Count
			if err := n.print(b); err != nil {
				return err
			}
		}
	}
}

func (n *Unread) print(b notify.Badge) error {
	if n.JSON {
		return printers.JSON(map[string]int{"unread_count": b.Count})
	}
	pp := printers.PrettyPrint{}
	pp.Unread(b.Count)
	return nil
}
