package entity

import (
	"github.com/shopspring/decimal"

	"github.com/docflow-tools/finstat/constants"
)

// Document is a single matched line carried between the extractor and the
// aggregator. The amount is fixed at creation and never mutated.
type Document struct {
	Type   constants.DocType
	Amount decimal.Decimal
}

// InvalidFileRecord pairs a rejected file with the single reason it was
// quarantined for.
type InvalidFileRecord struct {
	Reason   constants.Reason
	Filename string
}
