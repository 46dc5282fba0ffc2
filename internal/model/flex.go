package model

import (
	"encoding/json"
	"strconv"
)

// FlexFloat decodes a JSON number or a numeric string to a float64.
// Older client versions stored averageRating both ways; anything
// unreadable decodes to 0 without error.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*f = FlexFloat(n)
			return nil
		}
	}
	*f = 0
	return nil
}
