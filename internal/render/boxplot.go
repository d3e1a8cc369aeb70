package render

import (
	"math"
	"sort"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
)

var weekdayNames = [...]string{"", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// BoxStats is the five-number summary of coef_seats for one weekday.
type BoxStats struct {
	Weekday      int       `json:"weekday"`
	Label        string    `json:"label"`
	N            int       `json:"n"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerFence   float64   `json:"lower_fence"`
	UpperFence   float64   `json:"upper_fence"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	NotchLow     float64   `json:"notch_low"`
	NotchHigh    float64   `json:"notch_high"`
	Outliers     []float64 `json:"outliers"`
}

type BoxPlotSpec struct {
	NoData bool       `json:"no_data"`
	Title  string     `json:"title"`
	XLabel string     `json:"x_label"`
	YLabel string     `json:"y_label"`
	Groups []BoxStats `json:"groups"`
}

// WeekdayBoxPlot groups rows by weekday (1..7) and summarizes each non-empty group.
// Groups come out ordered Monday first.
func WeekdayBoxPlot(rows []domain.EnrichedFlight) *BoxPlotSpec {
	spec := &BoxPlotSpec{
		Title:  "Коэффициент заполнения салона самолета по дням недели",
		XLabel: "weekday",
		YLabel: "coef_seats",
		Groups: make([]BoxStats, 0, 7),
	}

	var byDay [8][]float64
	for _, r := range rows {
		if r.Weekday < 1 || r.Weekday > 7 {
			continue
		}
		byDay[r.Weekday] = append(byDay[r.Weekday], r.CoefSeats)
	}

	for wd := 1; wd <= 7; wd++ {
		if len(byDay[wd]) == 0 {
			continue
		}
		stats := Summarize(byDay[wd])
		stats.Weekday = wd
		stats.Label = weekdayNames[wd]
		spec.Groups = append(spec.Groups, stats)
	}
	spec.NoData = len(spec.Groups) == 0
	return spec
}

// Summarize computes quartiles by linear interpolation, 1.5*IQR fences and
// notch bounds median +/- 1.57*IQR/sqrt(n). values must not be empty.
func Summarize(values []float64) BoxStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := quantile(sorted, 0.25)
	median := quantile(sorted, 0.5)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	notch := 1.57 * iqr / math.Sqrt(float64(n))

	s := BoxStats{
		N:          n,
		Min:        sorted[0],
		Q1:         q1,
		Median:     median,
		Q3:         q3,
		Max:        sorted[n-1],
		LowerFence: q1 - 1.5*iqr,
		UpperFence: q3 + 1.5*iqr,
		NotchLow:   median - notch,
		NotchHigh:  median + notch,
		Outliers:   make([]float64, 0),
	}

	s.LowerWhisker, s.UpperWhisker = s.Max, s.Min
	for _, v := range sorted {
		if v < s.LowerFence || v > s.UpperFence {
			s.Outliers = append(s.Outliers, v)
			continue
		}
		if v < s.LowerWhisker {
			s.LowerWhisker = v
		}
		if v > s.UpperWhisker {
			s.UpperWhisker = v
		}
	}
	return s
}

func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}
