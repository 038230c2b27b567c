package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Limit is a resource limit that is either unlimited or a concrete value
type Limit struct {
	unlimited bool
	value     int64
}

// Unlimited returns a limit with no upper bound
func Unlimited() Limit {
	return Limit{unlimited: true}
}

// LimitOf returns a bounded limit
func LimitOf(v int64) Limit {
	return Limit{value: v}
}

// IsUnlimited reports whether the limit has no upper bound
func (l Limit) IsUnlimited() bool {
	return l.unlimited
}

// Value returns the bound and false when the limit is unlimited
func (l Limit) Value() (int64, bool) {
	if l.unlimited {
		return 0, false
	}
	return l.value, true
}

// String renders "Unlimited" or the numeric bound
func (l Limit) String() string {
	if l.unlimited {
		return "Unlimited"
	}
	return strconv.FormatInt(l.value, 10)
}

// MarshalJSON encodes an unlimited limit as null
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.unlimited {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(l.value, 10)), nil
}

// UnmarshalJSON accepts null for unlimited and a number for a bound
func (l *Limit) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = Unlimited()
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("limit: %w", err)
	}
	*l = LimitOf(v)
	return nil
}

// Shares is a resource share allocation (count plus level such as "normal")
type Shares struct {
	Level string `json:"level,omitempty"`
	Count *int64 `json:"count,omitempty"`
}

// String renders "<count> (Level: <level>)" with N/A for missing parts
func (s Shares) String() string {
	count := "N/A"
	if s.Count != nil {
		count = strconv.FormatInt(*s.Count, 10)
	}
	level := s.Level
	if level == "" {
		level = "N/A"
	}
	return fmt.Sprintf("%s (Level: %s)", count, level)
}

// VLANMode distinguishes the VLAN configurations a port group can carry
type VLANMode string

const (
	VLANModeAccess  VLANMode = "access"
	VLANModeTrunk   VLANMode = "trunk"
	VLANModePrivate VLANMode = "private"
	// VLANModeRaw keeps collector text that matched no known layout
	VLANModeRaw VLANMode = "raw"
)

// VLANRange is an inclusive trunk range
type VLANRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// VLAN is the VLAN configuration of a port group
type VLAN struct {
	Mode   VLANMode    `json:"mode"`
	ID     int         `json:"id,omitempty"`
	Ranges []VLANRange `json:"ranges,omitempty"`
	Text   string      `json:"text,omitempty"`
}

// String renders the VLAN the way it is shown on network labels
func (v *VLAN) String() string {
	if v == nil {
		return ""
	}
	switch v.Mode {
	case VLANModeTrunk:
		parts := make([]string, 0, len(v.Ranges))
		for _, r := range v.Ranges {
			parts = append(parts, fmt.Sprintf("%d-%d", r.Start, r.End))
		}
		return fmt.Sprintf("Trunk (%s)", strings.Join(parts, ", "))
	case VLANModePrivate:
		return fmt.Sprintf("Private VLAN (Primary: %d)", v.ID)
	case VLANModeRaw:
		return v.Text
	default:
		return strconv.Itoa(v.ID)
	}
}
