package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/render"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/service/query"
	"golang.org/x/sync/errgroup"
)

const (
	MessageNoData       = "Пожалуйста, выберите фильтры для графика"
	MessageInvalidInput = "Проверьте выбранные фильтры"
	MessageRenderFailed = "Не удалось построить графики для выбранных фильтров"
)

// Render runs one apply cycle against rows: validate, filter, then build the three
// artifacts concurrently. Invalid input, an empty selection and renderer failures all
// come back as a StateEmpty bundle; the only error returned is ctx's.
func Render(ctx context.Context, rows query.Rows, state domain.FilterState) (*render.Bundle, error) {
	if err := state.Validate(); err != nil {
		return render.Empty(MessageInvalidInput, hintFor(err)), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := query.Filter(rows, state)
	if len(filtered) == 0 {
		return render.Empty(MessageNoData, ""), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bundle := &render.Bundle{State: render.StateRendered, Rows: len(filtered)}
	var g errgroup.Group
	g.Go(guard("histogram", func() { bundle.Histogram = render.Histogram(filtered) }))
	g.Go(guard("boxplot", func() { bundle.BoxPlot = render.WeekdayBoxPlot(filtered) }))
	g.Go(guard("table", func() { bundle.Table = render.Table(filtered) }))

	if err := g.Wait(); err != nil {
		log.Printf("render failed: %v", err)
		return render.Empty(MessageRenderFailed, ""), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// guard turns a renderer panic into an error so one bad artifact cannot take down the request.
func guard(name string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s renderer: %v", name, r)
			}
		}()
		fn()
		return nil
	}
}

// hintFor extracts the user-facing part of a validation error.
func hintFor(err error) string {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return ""
}
