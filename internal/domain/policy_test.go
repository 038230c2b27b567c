package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, KindVM, p.StartType)
	assert.Equal(t, 1, p.Depth)
	assert.True(t, p.VMInclusions.IncludeHost)
	assert.True(t, p.VMInclusions.IncludeClusterOfHost)
	assert.True(t, p.VMInclusions.IncludeDatastores)
	assert.True(t, p.VMInclusions.IncludeNetworks)
	assert.True(t, p.HostInclusions.IncludeVMsOnHost)
}

func TestPolicyDecodeKeepsDefaults(t *testing.T) {
	p := DefaultPolicy()
	body := `{"start_object_identifier":"web01","vm_inclusions":{"include_networks":false},"depth":2}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Equal(t, "web01", p.StartIdentifier)
	assert.Equal(t, 2, p.Depth)
	assert.Equal(t, KindVM, p.StartType)
	assert.True(t, p.VMInclusions.IncludeHost)
	assert.False(t, p.VMInclusions.IncludeNetworks)
	assert.True(t, p.HostInclusions.IncludeVMsOnHost)
}

func TestPolicyValidate(t *testing.T) {
	valid := DefaultPolicy()
	valid.StartIdentifier = "web01"

	tests := []struct {
		name    string
		mutate  func(p *Policy)
		wantErr bool
	}{
		{"accepts the default policy with an identifier", func(p *Policy) {}, false},
		{"accepts depth two", func(p *Policy) { p.Depth = 2 }, false},
		{"rejects depth zero", func(p *Policy) { p.Depth = 0 }, true},
		{"rejects depth three", func(p *Policy) { p.Depth = 3 }, true},
		{"rejects a blank identifier", func(p *Policy) { p.StartIdentifier = " " }, true},
		{"rejects an empty start type", func(p *Policy) { p.StartType = "" }, true},
		{"leaves unsupported start types to the builder", func(p *Policy) { p.StartType = KindHost }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPolicy)
				return
			}
			assert.NoError(t, err)
		})
	}
}
