// Package dataset turns flight facts into the immutable table every apply cycle reads.
package dataset

import (
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
)

// Dataset is the enriched flight table. It is built once and never modified; all
// accessors return copies so it can be shared between goroutines without locking.
type Dataset struct {
	rows   []domain.EnrichedFlight
	cities []string
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

func (d *Dataset) At(i int) domain.EnrichedFlight {
	return d.rows[i]
}

// Rows returns a copy of the table in source order.
func (d *Dataset) Rows() []domain.EnrichedFlight {
	if d == nil {
		return nil
	}
	out := make([]domain.EnrichedFlight, len(d.rows))
	copy(out, d.rows)
	return out
}

// Cities returns the sorted city names of the airport lookup, used as selector options.
func (d *Dataset) Cities() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.cities))
	copy(out, d.cities)
	return out
}
