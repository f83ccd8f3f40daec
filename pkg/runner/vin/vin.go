package vin

import (
	"context"
	"errors"

	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/printers"
	"tableflip.dev/pitstop/pkg/shop"
)

// Get looks a vehicle up by full VIN or last 6 and prints its profile.
type Get struct {
	Service *app.Service
	Query   string
	ShowID  bool
	JSON    bool
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}
	v, err := n.Service.LookupVin(ctx, n.Query)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(v)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Location: n.Service.Location}
	pp.NewLine()
	pp.Vin(&v)
	return nil
}

// Decode asks the backend decoder what a VIN is.
type Decode struct {
	Service *app.Service
	Vin     string
	JSON    bool
}

func (n *Decode) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not decode, no service")
	}
	d, err := n.Service.DecodeVin(ctx, n.Vin)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(d)
	}
	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Decoded(d)
	return nil
}

// Create registers a vehicle. With Decode set, blank make, model, year and
// trim are filled from the decoder first.
type Create struct {
	Service *app.Service
	Vin     shop.NewVin
	Decode  bool
	JSON    bool
}

func (n *Create) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not create, no service")
	}
	if n.Decode {
		d, err := n.Service.DecodeVin(ctx, n.Vin.Vin)
		if err != nil {
			return err
		}
		fill(&n.Vin, d)
	}
	v, err := n.Service.CreateVin(ctx, n.Vin)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(v)
	}
	pp := printers.PrettyPrint{Location: n.Service.Location}
	pp.Done("Created " + v.Label() + " " + v.Vin)
	return nil
}
