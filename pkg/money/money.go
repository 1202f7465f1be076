// Package money holds integer currency arithmetic shared by the invoicing
// and reporting services. All amounts are whole currency units (yen); no
// floating point is used for accumulation.
package money

// ItemAmount computes the billable amount of a single invoice line.
// Hourly lines (hours > 0) bill hours * unitPrice, everything else bills
// quantity * unitPrice.
func ItemAmount(quantity, unitPrice, hours int64) int64 {
	if hours > 0 {
		return hours * unitPrice
	}
	return quantity * unitPrice
}

// Sum adds a slice of amounts with plain integer addition.
func Sum(amounts []int64) int64 {
	var total int64
	for _, a := range amounts {
		total += a
	}
	return total
}

// Unpaid returns the outstanding balance of an invoice, never negative.
func Unpaid(totalAmount, paidAmount int64) int64 {
	if remaining := totalAmount - paidAmount; remaining > 0 {
		return remaining
	}
	return 0
}

// IsFullyPaid reports whether payments cover the invoice total.
func IsFullyPaid(totalAmount, paidAmount int64) bool {
	return paidAmount >= totalAmount
}

// Profit is revenue minus expenses. May be negative.
func Profit(revenue, expenses int64) int64 {
	return revenue - expenses
}

// Rate returns part/whole as a percentage for display. A zero whole yields
// 0 rather than a division error or NaN.
func Rate(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
