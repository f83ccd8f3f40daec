package teaui

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/tabs"
	"tableflip.dev/pitstop/pkg/tui/dashboard"
	"tableflip.dev/pitstop/pkg/tui/pickupview"
)

// ErrNoTerminal is returned when stdin or stdout is not a terminal.
var ErrNoTerminal = errors.New("the terminal interface needs an interactive terminal")

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// Dashboard opens the message dashboard, or one vehicle's history.
type Dashboard struct {
	Service *app.Service
	Scope   tabs.Scope
}

func (d *Dashboard) Do(_ context.Context) error {
	if d.Service == nil {
		return errors.New("can not open dashboard, no service")
	}
	if !interactive() {
		return ErrNoTerminal
	}
	return dashboard.Run(d.Service, d.Scope)
}

// Pickup opens the pickup screen for a service record. When the user asks for
// the vehicle afterwards, its history opens next.
type Pickup struct {
	Service *app.Service
	ID      int
}

func (p *Pickup) Do(ctx context.Context) error {
	if p.Service == nil {
		return errors.New("can not open pickup, no service")
	}
	if !interactive() {
		return ErrNoTerminal
	}
	res, err := pickupview.Run(p.Service, p.ID)
	if err != nil {
		return err
	}
	if !res.OpenVin || res.Handoff == nil || res.Handoff.VinString == "" {
		return nil
	}
	v, err := p.Service.LookupVin(ctx, res.Handoff.VinString)
	if err != nil {
		return err
	}
	return dashboard.Run(p.Service, tabs.ForVin(v.ID))
}
