package repository

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"rentchat/internal/model"
)

// MemoryStore serves queries from a fixed in-memory catalog. The catalog is
// loaded once and never mutated, so concurrent reads need no locking.
type MemoryStore struct {
	houses []model.House
	logger *zap.Logger
}

// NewMemoryStore creates a store over the given catalog. Pass MockHouses()
// for the built-in demo data.
func NewMemoryStore(houses []model.House, logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		houses: houses,
		logger: logger,
	}
}

// QueryHouses filters the catalog by area and budget ceiling, sorts ascending
// by price (catalog order breaks ties) and returns at most MaxResults rows.
func (s *MemoryStore) QueryHouses(ctx context.Context, q model.HouseSearchQuery, opts ...QueryOption) ([]model.House, error) {
	params := resolveParams(q, opts)

	var results []model.House
	for _, house := range s.houses {
		if !matchArea(house, params.area) {
			continue
		}
		// A listing without a usable price cannot be compared against any
		// budget, so it is excluded outright rather than passed through.
		if house.Price == nil {
			continue
		}
		if params.maxPrice != nil && *house.Price > *params.maxPrice {
			continue
		}
		results = append(results, house)
	}

	matched := len(results)
	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Price < *results[j].Price
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}

	s.logger.Info("catalog query",
		zap.Stringp("area", params.area),
		zap.Intp("max_price", params.maxPrice),
		zap.Int("matched", matched),
		zap.Int("returned", len(results)),
	)
	return results, nil
}

// matchArea reports whether the listing hits the area keyword: a trimmed
// case-sensitive substring match against either area or location. A nil or
// blank keyword matches everything.
func matchArea(house model.House, area *string) bool {
	if area == nil {
		return true
	}
	keyword := strings.TrimSpace(*area)
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.TrimSpace(house.Area), keyword) ||
		strings.Contains(strings.TrimSpace(house.Location), keyword)
}
