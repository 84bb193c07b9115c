package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number decodes JSON numbers, numeric strings ("12,5" included) and null.
// Anything else decodes to 0 instead of failing the request.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*n = Number(f)
	}
	return nil
}

func (n Number) Float() float64 { return float64(n) }
