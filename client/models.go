package client

import (
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/store"
)

// Client models a construction client in clients.
type Client struct {
	bun.BaseModel `bun:"table:clients"`
	store.Base

	Name          string  `bun:"name,notnull" json:"name"`
	Email         *string `bun:"email" json:"email,omitempty"`
	Phone         *string `bun:"phone" json:"phone,omitempty"`
	Address       *string `bun:"address" json:"address,omitempty"`
	ContactPerson *string `bun:"contact_person" json:"contact_person,omitempty"`
}

// Patch carries the optional fields accepted by Update.
type Patch struct {
	Name          *string
	Email         *string
	Phone         *string
	Address       *string
	ContactPerson *string
}

// Apply copies every set field onto c.
func (p Patch) Apply(c *Client) {
	store.Set(&c.Name, p.Name)
	store.SetPtr(&c.Email, p.Email)
	store.SetPtr(&c.Phone, p.Phone)
	store.SetPtr(&c.Address, p.Address)
	store.SetPtr(&c.ContactPerson, p.ContactPerson)
}

var columns = []string{"name", "email", "phone", "address", "contact_person"}
