package repository

import (
	"context"

	"rentchat/internal/model"
)

// MaxResults caps every query result: the reply prompt only ever shows the
// three cheapest matches.
const MaxResults = 3

// HouseStore is the catalog query capability the chat pipeline depends on.
// Implementations must filter by area and budget, sort ascending by price
// and return at most MaxResults listings. Listings without a usable price
// are excluded even when no budget filter is active.
type HouseStore interface {
	QueryHouses(ctx context.Context, q model.HouseSearchQuery, opts ...QueryOption) ([]model.House, error)
}

// queryParams is the effective filter after applying overrides on top of the
// structured query.
type queryParams struct {
	area     *string
	maxPrice *int
}

// QueryOption overrides one filter field of the structured query. An option
// always carries a concrete value: a caller that wants "unconstrained" omits
// the option instead of passing an empty one, so an override can narrow but
// never clear a field the NLU already filled.
type QueryOption func(*queryParams)

// WithArea forces the area filter regardless of what the query contains.
func WithArea(area string) QueryOption {
	return func(p *queryParams) {
		p.area = &area
	}
}

// WithMaxPrice forces the budget ceiling regardless of what the query contains.
func WithMaxPrice(max int) QueryOption {
	return func(p *queryParams) {
		p.maxPrice = &max
	}
}

func resolveParams(q model.HouseSearchQuery, opts []QueryOption) queryParams {
	p := queryParams{area: q.Area, maxPrice: q.MaxPrice}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
