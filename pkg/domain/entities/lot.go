package entities

import (
	"fmt"
	"time"

	"github.com/vsinha/lottrack/pkg/domain/identity"
)

// Lot is the anchor record joining the three operational logs. The same
// physical lot may be written as "LOT-123" in one log and "lot 123" in
// another; NormalizedID holds the canonical form used for matching.
//
// Invariant: NormalizedID == identity.Normalize(LotIdentifier). NewLot is
// the only way to build a Lot, so the two fields can never drift apart.
type Lot struct {
	ID            int64
	LotIdentifier string
	NormalizedID  string
	PartNumber    string
	CreatedDate   time.Time
}

// NewLot creates a validated Lot with its normalized identifier computed
// from the raw one.
func NewLot(lotIdentifier, partNumber string, createdDate time.Time) (*Lot, error) {
	if lotIdentifier == "" {
		return nil, fmt.Errorf("lot identifier cannot be empty")
	}
	if partNumber == "" {
		return nil, fmt.Errorf("part number cannot be empty")
	}

	return &Lot{
		LotIdentifier: lotIdentifier,
		NormalizedID:  identity.Normalize(lotIdentifier),
		PartNumber:    partNumber,
		CreatedDate:   createdDate,
	}, nil
}
