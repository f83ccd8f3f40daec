package contact

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/printers"
	"tableflip.dev/pitstop/pkg/shop"
)

// Create adds a contact and, when VinID is set, links it to that vehicle.
type Create struct {
	Service *app.Service
	Contact shop.NewContact
	VinID   int
	JSON    bool
}

func (n *Create) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not create, no service")
	}
	c, err := n.Service.CreateContact(ctx, n.Contact, n.VinID)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(c)
	}
	pp := printers.PrettyPrint{}
	msg := "Created " + c.String()
	if n.VinID != 0 {
		msg += fmt.Sprintf(" and linked to vin %d", n.VinID)
	}
	pp.Done(msg)
	return nil
}

// Search finds contacts by name or phone.
type Search struct {
	Service *app.Service
	Query   string
	ShowID  bool
	JSON    bool
}

func (n *Search) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not search, no service")
	}
	found, err := n.Service.SearchContacts(ctx, n.Query)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(found)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()
	pp.Title(fmt.Sprintf("Contacts matching %q", n.Query))
	pp.Contacts(found...)
	return nil
}

// Link attaches an existing contact to a vehicle.
type Link struct {
	Service   *app.Service
	ContactID int
	VinID     int
}

func (n *Link) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not link, no service")
	}
	if err := n.Service.LinkContact(ctx, n.ContactID, n.VinID); err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Done(fmt.Sprintf("Linked contact %d to vin %d", n.ContactID, n.VinID))
	return nil
}
