package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// SaleTotals totales calculados de una venta.
type SaleTotals struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
}

// CalculateSaleTotals llena Amount en cada línea y devuelve subtotal, impuesto y total.
// Subtotal = Σ qty·precio; Tax = Σ qty·precio·tasa; GrandTotal = Subtotal + Tax − Discount (2 decimales).
func CalculateSaleTotals(lines []entity.LogLine, discount decimal.Decimal) (SaleTotals, error) {
	if discount.IsNegative() {
		return SaleTotals{}, domain.ErrInvalidInput
	}
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range lines {
		amount := decimal.NewFromInt(lines[i].Quantity).Mul(lines[i].UnitPrice)
		lines[i].Amount = amount.Round(2)
		subtotal = subtotal.Add(amount)
		tax = tax.Add(amount.Mul(lines[i].TaxRate))
	}
	subtotal = subtotal.Round(2)
	tax = tax.Round(2)
	gross := subtotal.Add(tax)
	if discount.GreaterThan(gross) {
		return SaleTotals{}, domain.ErrInvalidInput
	}
	discount = discount.Round(2)
	return SaleTotals{
		Subtotal:   subtotal,
		Tax:        tax,
		Discount:   discount,
		GrandTotal: gross.Sub(discount),
	}, nil
}

// LinesTotal suma los importes (qty·precio) de líneas de compra o devolución.
func LinesTotal(lines []entity.LogLine) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		lines[i].Amount = decimal.NewFromInt(lines[i].Quantity).Mul(lines[i].UnitPrice).Round(2)
		total = total.Add(lines[i].Amount)
	}
	return total
}
