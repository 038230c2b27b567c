package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"vspheremap/internal/domain"
)

var (
	trunkPattern   = regexp.MustCompile(`^Trunk \((.*)\)$`)
	privatePattern = regexp.MustCompile(`^Private VLAN \(Primary: (\d+)\)$`)
)

// ParseVLAN converts the collector's vlan_id_info text into a typed VLAN.
// It returns nil for empty or placeholder input.
func ParseVLAN(info string) (*domain.VLAN, error) {
	info = strings.TrimSpace(info)
	if info == "" || info == notAvailable {
		return nil, nil
	}

	if m := trunkPattern.FindStringSubmatch(info); m != nil {
		vlan := &domain.VLAN{Mode: domain.VLANModeTrunk}
		for _, part := range strings.Split(m[1], ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			bounds := strings.SplitN(part, "-", 2)
			if len(bounds) != 2 {
				return nil, fmt.Errorf("invalid trunk range %q", part)
			}
			start, err := strconv.Atoi(bounds[0])
			if err != nil {
				return nil, fmt.Errorf("invalid trunk range %q: %w", part, err)
			}
			end, err := strconv.Atoi(bounds[1])
			if err != nil {
				return nil, fmt.Errorf("invalid trunk range %q: %w", part, err)
			}
			vlan.Ranges = append(vlan.Ranges, domain.VLANRange{Start: start, End: end})
		}
		return vlan, nil
	}

	if m := privatePattern.FindStringSubmatch(info); m != nil {
		id, _ := strconv.Atoi(m[1])
		return &domain.VLAN{Mode: domain.VLANModePrivate, ID: id}, nil
	}

	id, err := strconv.Atoi(info)
	if err != nil {
		return nil, fmt.Errorf("unrecognized VLAN info %q", info)
	}
	return &domain.VLAN{Mode: domain.VLANModeAccess, ID: id}, nil
}
