// internal/cart/charge.go
package cart

import "github.com/javajoker/grocery-browser/internal/models"

const DefaultTaxRate = 0.05

// Charge computes the secondary charge added on top of the subtotal.
type Charge interface {
	Model() models.ChargeModel
	Amount(entries []Entry, subtotal float64) float64
}

type TaxCharge struct {
	Rate float64
}

func (t TaxCharge) Model() models.ChargeModel { return models.ChargeModelTax }

func (t TaxCharge) Amount(_ []Entry, subtotal float64) float64 {
	return t.Rate * subtotal
}

type DepositCharge struct{}

func (DepositCharge) Model() models.ChargeModel { return models.ChargeModelDeposit }

func (DepositCharge) Amount(entries []Entry, _ float64) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Product.DepositPerUnit * float64(e.Quantity)
	}
	return total
}

// NewCharge maps a configured model name onto a Charge. Unknown names fall
// back to the tax model.
func NewCharge(model string, taxRate float64) Charge {
	if models.ChargeModel(model) == models.ChargeModelDeposit {
		return DepositCharge{}
	}
	return TaxCharge{Rate: taxRate}
}
