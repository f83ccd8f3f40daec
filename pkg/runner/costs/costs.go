package costs

import (
	"context"
	"errors"

	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/printers"
)

// Costs prints the SMS spend for a day (or all time), or the monthly report.
type Costs struct {
	Service *app.Service
	Date    string
	Monthly bool
	JSON    bool
}

func (n *Costs) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get costs, no service")
	}
	pp := printers.PrettyPrint{Location: n.Service.Location}

	if n.Monthly {
		m, err := n.Service.MonthlyCosts(ctx)
		if err != nil {
			return err
		}
		if n.JSON {
			return printers.JSON(m)
		}
		pp.NewLine()
		pp.Monthly(m)
		return nil
	}

	sum, err := n.Service.Costs(ctx, n.Date)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(sum)
	}
	pp.NewLine()
	pp.Costs(sum)
	return nil
}
