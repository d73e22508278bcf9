package livox

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// DecodeCustomMsg reads a single CustomMsg JSON document from r.
// Unknown fields are ignored. Point values are not range checked.
func DecodeCustomMsg(r io.Reader) (CustomMsg, error) {
	var msg CustomMsg
	dec := json.NewDecoder(r)
	if err := dec.Decode(&msg); err != nil {
		return CustomMsg{}, fmt.Errorf("failed to decode %s: %w", SchemaName, err)
	}
	// Anything but whitespace after the message would mean a batch or a
	// corrupt document.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return CustomMsg{}, fmt.Errorf("failed to decode %s: trailing data after message", SchemaName)
	}
	return msg, nil
}

// UnmarshalJSON accepts the integer attributes written either as integers
// or as floats ("200.0"). Floats are truncated toward zero.
func (p *CustomPoint) UnmarshalJSON(b []byte) error {
	type plain CustomPoint
	var raw struct {
		plain
		Reflectivity json.Number `json:"reflectivity"`
		Tag          json.Number `json:"tag"`
		Line         json.Number `json:"line"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	attrs := []struct {
		name string
		num  json.Number
		dst  *int
	}{
		{"reflectivity", raw.Reflectivity, &raw.plain.Reflectivity},
		{"tag", raw.Tag, &raw.plain.Tag},
		{"line", raw.Line, &raw.plain.Line},
	}
	for _, a := range attrs {
		v, err := attrInt(a.num)
		if err != nil {
			return fmt.Errorf("point %s: %w", a.name, err)
		}
		*a.dst = v
	}
	*p = CustomPoint(raw.plain)
	return nil
}

// attrInt converts a JSON number to int. Integral values outside the
// float64 exact range are reduced modulo 256, which keeps the byte the
// encoder will write.
func attrInt(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	f = math.Trunc(f)
	if math.Abs(f) < 1<<53 {
		return int(f), nil
	}
	return int(math.Mod(f, 256)), nil
}
