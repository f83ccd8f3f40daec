package service

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/printers"
	"tableflip.dev/pitstop/pkg/shop"
)

// Create records an oil service against a vehicle.
type Create struct {
	Service *app.Service
	Record  shop.NewServiceRecord
	JSON    bool
}

func (n *Create) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not create, no service")
	}
	sr, err := n.Service.CreateServiceRecord(ctx, n.Record)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(sr)
	}
	pp := printers.PrettyPrint{Location: n.Service.Location}
	pp.Done(fmt.Sprintf("Created service record %d", sr.ID))
	return nil
}

// Show prints one service record and whether its pickup text went out.
type Show struct {
	Service *app.Service
	ID      int
	JSON    bool
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show, no service")
	}
	sr, err := n.Service.ServiceRecord(ctx, n.ID)
	if err != nil {
		return err
	}
	sent, err := n.Service.PickupSent(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(struct {
			shop.ServiceRecord
			PickupSent bool `json:"pickup_sent"`
		}{sr, sent})
	}
	pp := printers.PrettyPrint{Location: n.Service.Location}
	pp.NewLine()
	pp.ServiceRecord(&sr, sent)
	pp.Title("Contacts")
	pp.Contacts(sr.Vin.Contacts...)
	return nil
}
