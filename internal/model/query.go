package model

import (
	"strconv"
	"strings"

	"rentchat/internal/utils"
)

// HouseSearchQuery is the structured search intent inferred from the
// conversation at the current turn. Nil fields mean "unconstrained or
// unknown" and are never coerced to zero values: the NLU prompt relies on
// null to express "no preference / carry forward".
type HouseSearchQuery struct {
	SearchIntent bool    `json:"search_intent"`
	Area         *string `json:"area"`
	MaxPrice     *int    `json:"max_price"`
}

// ParseHouseSearchQuery converts raw model output into a HouseSearchQuery.
// The source is LLM-generated text with no format guarantee, so every step
// is tolerant: markdown fences are stripped, wrong-typed fields degrade to
// their nil/false value, and any structural failure yields the all-defaults
// query. It never returns an error.
func ParseHouseSearchQuery(raw string) HouseSearchQuery {
	var q HouseSearchQuery

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return q
	}

	var data map[string]any
	if err := utils.DecodeModelJSON(raw, &data); err != nil {
		return q
	}

	q.SearchIntent = coerceBool(data["search_intent"])
	q.Area = coerceArea(data["area"])
	q.MaxPrice = coercePriceLimit(data["max_price"])
	return q
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(b)))
		if err != nil {
			return false
		}
		return parsed
	case float64:
		return b != 0
	default:
		return false
	}
}

// coerceArea accepts only string values; empty after trimming means nil.
func coerceArea(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func coercePriceLimit(v any) *int {
	switch n := v.(type) {
	case float64:
		price := int(n)
		return &price
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		price, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &price
	default:
		return nil
	}
}
