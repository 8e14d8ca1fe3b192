package http

import (
	"net/http"

	"mtdash/internal/dataset"
	"mtdash/internal/middleware"
)

// filterQuery is the decoded filter parameter set shared by every data
// endpoint.
type filterQuery struct {
	From      string `validate:"omitempty,iso_date"`
	To        string `validate:"omitempty,iso_date"`
	Direction string `validate:"omitempty,direction,max=200"`
}

// parseFilter decodes and validates the filter query parameters. An
// empty query yields the zero filter, which selects everything.
func parseFilter(r *http.Request, vm *middleware.ValidationMiddleware) (dataset.Filter, error) {
	q := r.URL.Query()
	fq := filterQuery{
		From:      q.Get("from"),
		To:        q.Get("to"),
		Direction: q.Get("direction"),
	}
	if err := vm.ValidateStruct(fq); err != nil {
		return dataset.Filter{}, err
	}
	return dataset.Filter{
		DateFrom:  fq.From,
		DateTo:    fq.To,
		Direction: fq.Direction,
	}, nil
}
