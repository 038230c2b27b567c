package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// MinDepth and MaxDepth bound the exploration depth
	MinDepth = 1
	MaxDepth = 2
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// VMInclusions selects the relationships followed from a VM
type VMInclusions struct {
	IncludeHost          bool `json:"include_host"`
	IncludeClusterOfHost bool `json:"include_cluster_of_host"`
	IncludeDatastores    bool `json:"include_datastores"`
	IncludeNetworks      bool `json:"include_networks"`
}

// HostInclusions selects the relationships followed when a host is expanded
type HostInclusions struct {
	IncludeVMsOnHost bool `json:"include_vms_on_host"`
}

// Policy describes where a graph build starts and how far it explores
type Policy struct {
	StartIdentifier string         `json:"start_object_identifier" validate:"required"`
	StartType       Kind           `json:"start_object_type" validate:"required"`
	VMInclusions    VMInclusions   `json:"vm_inclusions"`
	HostInclusions  HostInclusions `json:"host_depth2_inclusions"`
	Depth           int            `json:"depth" validate:"min=1,max=2"`
}

// DefaultPolicy returns a policy with every inclusion enabled, depth 1 and a
// VM start type. Decoding a request on top of it keeps the defaults for
// omitted fields.
func DefaultPolicy() Policy {
	return Policy{
		StartType: KindVM,
		VMInclusions: VMInclusions{
			IncludeHost:          true,
			IncludeClusterOfHost: true,
			IncludeDatastores:    true,
			IncludeNetworks:      true,
		},
		HostInclusions: HostInclusions{IncludeVMsOnHost: true},
		Depth:          MinDepth,
	}
}

// Validate checks the structural constraints of the policy. The start type is
// only checked for presence; whether the builder supports it is decided there.
func (p Policy) Validate() error {
	p.StartIdentifier = strings.TrimSpace(p.StartIdentifier)
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidPolicy, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "max":
		return fmt.Sprintf("%s must be between %d and %d", fe.Field(), MinDepth, MaxDepth)
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
