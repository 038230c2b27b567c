package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// notAvailable is the placeholder the collector writes for missing values
const notAvailable = "N/A"

// scalar holds a leaf value from the export regardless of whether it was
// written as a string, number, boolean or null. The collector mixes these
// freely, e.g. "N/A" in numeric fields.
type scalar struct {
	raw   string
	valid bool
}

func (s *scalar) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*s = scalar{}
	case strings.HasPrefix(trimmed, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = scalar{raw: str, valid: true}
	case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
		return fmt.Errorf("expected a scalar, got %.20s", trimmed)
	default:
		*s = scalar{raw: trimmed, valid: true}
	}
	return nil
}

func (s *scalar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", value.Line)
	}
	if value.Tag == "!!null" {
		*s = scalar{}
		return nil
	}
	*s = scalar{raw: value.Value, valid: true}
	return nil
}

func str(v string) scalar { return scalar{raw: v, valid: true} }

// text returns the value, or "" for null and the N/A placeholder
func (s scalar) text() string {
	if !s.valid || s.raw == notAvailable {
		return ""
	}
	return s.raw
}

func (s scalar) int64() (int64, bool) {
	t := s.text()
	if t == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(t, 10, 64); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(f), true
	}
	return 0, false
}

func (s scalar) intOr(def int) int {
	if v, ok := s.int64(); ok {
		return int(v)
	}
	return def
}

func (s scalar) intPtr() *int {
	v, ok := s.int64()
	if !ok {
		return nil
	}
	i := int(v)
	return &i
}

func (s scalar) float() float64 {
	f, err := strconv.ParseFloat(s.text(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func (s scalar) boolPtr() *bool {
	b, err := strconv.ParseBool(s.text())
	if err != nil {
		return nil
	}
	return &b
}

func (s scalar) boolean() bool {
	if b := s.boolPtr(); b != nil {
		return *b
	}
	return false
}
