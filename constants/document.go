package constants

// DocType is the canonical document classification.
type DocType string

// Stable values (these exact strings appear in exported reports).
const (
	DocTypeCheck   DocType = "Check"
	DocTypeInvoice DocType = "Invoice"
	DocTypeOrder   DocType = "Order"
)

// DocTypes lists all document types in grammar application order.
var DocTypes = []DocType{DocTypeCheck, DocTypeInvoice, DocTypeOrder}

// CurrencyLabel returns the display-only currency symbol for a type.
// Invoices are dollar-denominated, everything else is euro.
func (t DocType) CurrencyLabel() string {
	if t == DocTypeInvoice {
		return "$"
	}
	return "€"
}
