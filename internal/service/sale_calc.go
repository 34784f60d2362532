package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ITBIS is the single fixed VAT-like rate applied to every taxable sale.
var itbisRate = decimal.NewFromFloat(0.18)

func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// lineAmounts holds the per-line figures computed once at sale creation.
type lineAmounts struct {
	Subtotal decimal.Decimal // qty*unit_price - discount, floored at 0
	Itbis    decimal.Decimal
	Total    decimal.Decimal
}

func computeLine(qty, unitPrice, discount decimal.Decimal) lineAmounts {
	sub := qty.Mul(unitPrice).Sub(discount)
	if sub.IsNegative() {
		sub = decimal.Zero
	}
	itbis := round2(sub.Mul(itbisRate))
	return lineAmounts{Subtotal: sub, Itbis: itbis, Total: sub.Add(itbis)}
}

// headerAmounts holds the sale header figures. Subtotal is gross (before any
// discount); Taxable is the discounted base the tax applies to.
type headerAmounts struct {
	Subtotal decimal.Decimal
	Taxable  decimal.Decimal
	Itbis    decimal.Decimal
	Total    decimal.Decimal
}

func computeHeader(grossSubtotal, lineSubtotalSum, headerDiscount decimal.Decimal) headerAmounts {
	taxable := lineSubtotalSum.Sub(headerDiscount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	itbis := round2(taxable.Mul(itbisRate))
	return headerAmounts{
		Subtotal: grossSubtotal,
		Taxable:  taxable,
		Itbis:    itbis,
		Total:    taxable.Add(itbis),
	}
}

// changeFor returns the change due at settlement: cash overpayment comes back
// to the customer, every other method settles exactly.
func changeFor(method string, paid, total decimal.Decimal) decimal.Decimal {
	if method != model.PaymentMethodCash {
		return decimal.Zero
	}
	change := paid.Sub(total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// newInvoiceNo generates the human-facing invoice number: time-based and
// collision-tolerant, not the fiscal number.
func newInvoiceNo(now time.Time) string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102150405"), hex.EncodeToString(buf))
}

// soldUnits aggregates the required outgoing quantity per product across all
// line items, truncating fractional quantities to integer units.
func soldUnits(items []model.SaleItem) map[uuid.UUID]int {
	units := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		units[item.ProductID] += int(item.Qty.IntPart())
	}
	return units
}

// sortedProductIDs returns the map keys in stable order so multi-product
// operations always lock rows in the same sequence.
func sortedProductIDs(units map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(units))
	for id := range units {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// FormatNCF renders a freshly issued sequence value as a fiscal document code:
// series prefix + two-digit doc type + zero-padded sequence number.
func FormatNCF(seq *model.FiscalSequence) string {
	return fmt.Sprintf("%s%s%08d", seq.Prefix, seq.DocType, seq.CurrentNumber)
}
