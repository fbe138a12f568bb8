// internal/cart/cart.go
package cart

import (
	"errors"

	"github.com/javajoker/grocery-browser/internal/catalog"
	"github.com/javajoker/grocery-browser/internal/models"
)

var ErrOfferOutOfRange = errors.New("offer index out of range")

type Entry struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	// SelectedOffer is -1 for products without offers.
	SelectedOffer int `json:"selected_offer_index"`
}

// UnitPrice is the price of the selected offer when the product has offers,
// otherwise the product price.
func (e Entry) UnitPrice() *float64 {
	if e.SelectedOffer >= 0 && e.SelectedOffer < len(e.Product.Offers) {
		return e.Product.Offers[e.SelectedOffer].Price
	}
	return e.Product.Price
}

type Totals struct {
	ItemCount       int                `json:"item_count"`
	Subtotal        float64            `json:"subtotal"`
	SecondaryCharge float64            `json:"secondary_charge"`
	ChargeModel     models.ChargeModel `json:"charge_model"`
	GrandTotal      float64            `json:"grand_total"`
}

// Cart maps product ids to entries and keeps insertion order for display.
// It is not safe for concurrent use.
type Cart struct {
	entries map[string]*Entry
	order   []string
	charge  Charge
}

func New(charge Charge) *Cart {
	if charge == nil {
		charge = TaxCharge{Rate: DefaultTaxRate}
	}
	return &Cart{entries: make(map[string]*Entry), charge: charge}
}

// Add inserts product with quantity 1, or bumps the quantity of an existing
// entry. New offer products start on their cheapest offer.
func (c *Cart) Add(p models.Product) {
	if e, ok := c.entries[p.ID]; ok {
		e.Quantity++
		return
	}
	c.entries[p.ID] = &Entry{
		Product:       p,
		Quantity:      1,
		SelectedOffer: catalog.CheapestOffer(p.Offers),
	}
	c.order = append(c.order, p.ID)
}

func (c *Cart) Increment(id string) {
	if e, ok := c.entries[id]; ok {
		e.Quantity++
	}
}

// Decrement lowers the quantity by one, removing the entry at zero.
func (c *Cart) Decrement(id string) {
	e, ok := c.entries[id]
	if !ok {
		return
	}
	e.Quantity--
	if e.Quantity <= 0 {
		c.Remove(id)
	}
}

func (c *Cart) Remove(id string) {
	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.entries = make(map[string]*Entry)
	c.order = nil
}

// SelectOffer switches the offer used to price an entry. Unknown ids are a
// no-op; an index outside the product's offers is rejected.
func (c *Cart) SelectOffer(id string, index int) error {
	e, ok := c.entries[id]
	if !ok {
		return nil
	}
	if index < 0 || index >= len(e.Product.Offers) {
		return ErrOfferOutOfRange
	}
	e.SelectedOffer = index
	return nil
}

func (c *Cart) Has(id string) bool {
	_, ok := c.entries[id]
	return ok
}

func (c *Cart) Len() int {
	return len(c.entries)
}

// Entries returns copies of the entries in insertion order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.entries[id])
	}
	return out
}

// Totals is recomputed from the current entries on every call.
func (c *Cart) Totals() Totals {
	entries := c.Entries()
	t := Totals{ChargeModel: c.charge.Model()}
	for _, e := range entries {
		t.ItemCount += e.Quantity
		if price := e.UnitPrice(); price != nil {
			t.Subtotal += *price * float64(e.Quantity)
		}
	}
	t.SecondaryCharge = c.charge.Amount(entries, t.Subtotal)
	t.GrandTotal = t.Subtotal + t.SecondaryCharge
	return t
}
