// Package render turns a filtered flight subset into chart and table specs for the UI.
// Every renderer is a pure function and accepts an empty input.
package render

import (
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
)

const (
	HistogramBins = 40

	// degenerateHalfWidth widens a single-valued range so bins never have zero width.
	// It is half of the coef_seats rounding step.
	degenerateHalfWidth = 0.005
)

// HistogramSpec is the coef_seats distribution. When NoData is set Edges and Counts are nil.
type HistogramSpec struct {
	NoData bool      `json:"no_data"`
	Title  string    `json:"title"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	Edges  []float64 `json:"edges,omitempty"`
	Counts []int     `json:"counts,omitempty"`
	Total  int       `json:"total"`
}

// Histogram bins coef_seats into HistogramBins equal-width buckets spanning the observed
// min and max. Bucket i covers [Edges[i], Edges[i+1]); the last one also includes the max.
func Histogram(rows []domain.EnrichedFlight) *HistogramSpec {
	spec := &HistogramSpec{
		Title:  "Гистограмма распределения коэффициента заполнения салона самолета",
		XLabel: "Коэффициент заполнения самолета пассажирами",
		YLabel: "Количество рейсов",
	}
	if len(rows) == 0 {
		spec.NoData = true
		return spec
	}

	lo, hi := rows[0].CoefSeats, rows[0].CoefSeats
	for _, r := range rows[1:] {
		if r.CoefSeats < lo {
			lo = r.CoefSeats
		}
		if r.CoefSeats > hi {
			hi = r.CoefSeats
		}
	}
	if hi == lo {
		lo -= degenerateHalfWidth
		hi += degenerateHalfWidth
	}

	width := (hi - lo) / HistogramBins
	edges := make([]float64, HistogramBins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[HistogramBins] = hi

	counts := make([]int, HistogramBins)
	for _, r := range rows {
		counts[binIndex(edges, width, r.CoefSeats)]++
	}

	spec.Edges = edges
	spec.Counts = counts
	spec.Total = len(rows)
	return spec
}

func binIndex(edges []float64, width, x float64) int {
	last := len(edges) - 2
	i := int((x - edges[0]) / width)
	if i < 0 {
		i = 0
	}
	if i > last {
		i = last
	}
	// correct for float error so the bin agrees with the published edges
	for i > 0 && x < edges[i] {
		i--
	}
	for i < last && x >= edges[i+1] {
		i++
	}
	return i
}
