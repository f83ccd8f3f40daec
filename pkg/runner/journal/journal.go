package journal

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/printers"
	"tableflip.dev/pitstop/pkg/store"
	"tableflip.dev/pitstop/pkg/timeutil"
)

// Journal prints what this terminal did. By default that is today; Window
// reports a look-back grouped by action and Follow keeps printing new records.
type Journal struct {
	Service *app.Service
	Day     string
	Window  string
	Follow  bool
	JSON    bool

	now func() time.Time
}

func (n *Journal) clock() time.Time {
	if n.now != nil {
		return n.now()
	}
	return time.Now()
}

func (n *Journal) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not read journal, no service")
	}
	j, err := n.Service.Journal()
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Location: n.Service.Location}

	if n.Window != "" {
		d, _, err := timeutil.ParseWindow(n.Window)
		if err != nil {
			return err
		}
		until := n.clock()
		res, err := n.Service.Report(ctx, until.Add(-d), until)
		if err != nil {
			return err
		}
		if n.JSON {
			return printers.JSON(res)
		}
		pp.NewLine()
		pp.Report(res)
		return nil
	}

	day := n.Day
	if day == "" {
		day = n.clock().Format(timeutil.LayoutYMD)
	}
	records := j.Day(ctx, day)
	if n.JSON && !n.Follow {
		return printers.JSON(records)
	}
	if !n.JSON {
		pp.NewLine()
		pp.Title(day)
		pp.Journal(records...)
	}
	if !n.Follow {
		return nil
	}
	return n.follow(ctx, j, records, pp)
}

func (n *Journal) follow(ctx context.Context, j store.Journal, seen []*store.Record, pp printers.PrettyPrint) error {
	known := make(map[string]struct{}, len(seen))
	for _, r := range seen {
		known[r.ID] = struct{}{}
	}
	events, err := j.Watch(ctx)
	if err != nil {
		return err
	}
	for ev := range events {
		var fresh []*store.Record
		switch ev.Type {
		case store.EventDayChanged:
			fresh = j.Day(ctx, ev.Day)
		default:
			fresh = j.List(ctx)
		}
		out := make([]*store.Record, 0, len(fresh))
		for _, r := range fresh {
			if _, ok := known[r.ID]; ok {
				continue
			}
			known[r.ID] = struct{}{}
			out = append(out, r)
		}
		if len(out) == 0 {
			continue
		}
		if n.JSON {
			if err := printers.JSON(out); err != nil {
				return err
			}
			continue
		}
		pp.Journal(out...)
	}
	return nil
}
