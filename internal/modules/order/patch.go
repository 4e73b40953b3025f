package order

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
)

// DecodePatch reads an update body. Keys outside the allow-list are ignored.
func DecodePatch(body []byte) (Patch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Patch{}, apperr.Validation("invalid JSON body")
	}

	var p Patch
	if v, ok := raw["status"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return Patch{}, apperr.Validation("status must be a string")
		}
		st, err := ParseStatus(s)
		if err != nil {
			return Patch{}, err
		}
		p.Status = &st
	}
	if v, ok := raw["tableId"]; ok {
		s, err := looseString(v)
		if err != nil {
			return Patch{}, apperr.Validation("tableId must be a string")
		}
		p.TableID = &s
	}
	if v, ok := raw["total"]; ok {
		total, err := parseAmount(v)
		if err != nil {
			return Patch{}, apperr.Validation("total must be a non-negative number")
		}
		p.Total = &total
	}
	if v, ok := raw["items"]; ok {
		items, err := ParseItems(v)
		if err != nil {
			return Patch{}, err
		}
		p.Items = &items
	}
	if v, ok := raw["screenshot"]; ok {
		s, err := looseString(v)
		if err != nil {
			return Patch{}, apperr.Validation("screenshot must be a string")
		}
		p.ScreenshotURL = &s
	}
	return p, nil
}

// ParseItems decodes a JSON array of line items.
func ParseItems(raw []byte) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperr.Validation("items must be a JSON array of {itemId, name, price, qty}")
	}
	return items, nil
}

// parseAmount accepts a JSON number or numeric string.
func parseAmount(raw []byte) (float64, error) {
	s, err := looseString(raw)
	if err != nil {
		return 0, err
	}
	return ParseTotal(s)
}

// ParseTotal parses a money amount. NaN and infinities are rejected along
// with negatives so they never reach the store or the report sums.
func ParseTotal(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !validAmount(v) {
		return 0, apperr.Validation("total must be a non-negative number")
	}
	return v, nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// looseString accepts a JSON string, number or null (as "").
func looseString(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
