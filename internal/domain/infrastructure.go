package domain

import "time"

// Snapshot is one immutable capture of the inventory. It is produced by the
// collection layer and replaced wholesale on refresh.
type Snapshot struct {
	ID             string         `json:"id"`
	CollectedAt    time.Time      `json:"collected_at"`
	Source         string         `json:"source,omitempty"`
	VCenter        *VCenter       `json:"vcenter,omitempty"`
	VMs            []VM           `json:"vms"`
	Infrastructure Infrastructure `json:"infrastructure"`
	Datastores     []Datastore    `json:"datastores"`
	Networks       Networks       `json:"networks"`
}

// VCenter describes the management server the snapshot was taken from
type VCenter struct {
	FullName     string `json:"full_name,omitempty"`
	Version      string `json:"version,omitempty"`
	Build        string `json:"build,omitempty"`
	InstanceUUID string `json:"instance_uuid,omitempty"`
}

// Infrastructure is the datacenter tree
type Infrastructure struct {
	Datacenters []Datacenter `json:"datacenters"`
}

// Networks holds both port group flavours
type Networks struct {
	Standard    []Network `json:"standard_port_groups"`
	Distributed []Network `json:"distributed_port_groups"`
}

// Datastore represents a storage volume
type Datastore struct {
	Name            string  `json:"name"`
	UUID            string  `json:"uuid,omitempty"`
	Type            string  `json:"type,omitempty"`
	CapacityGB      float64 `json:"capacity_gb"`
	FreeSpaceGB     float64 `json:"free_space_gb"`
	Accessible      bool    `json:"accessible"`
	URL             string  `json:"url,omitempty"`
	MaintenanceMode string  `json:"maintenance_mode,omitempty"`
}

// Kind implements Object
func (d *Datastore) Kind() Kind { return KindDatastore }

// PrimaryID prefers the UUID over the name
func (d *Datastore) PrimaryID() string {
	if d.UUID != "" {
		return d.UUID
	}
	return d.Name
}

// DisplayLabel implements Object
func (d *Datastore) DisplayLabel() string { return labelOr(d.Name, d.PrimaryID()) }

// NodeStatus renders accessibility
func (d *Datastore) NodeStatus() string {
	if d.Accessible {
		return "accessible"
	}
	return "inaccessible"
}

// NetworkType distinguishes standard from distributed port groups
type NetworkType string

const (
	NetworkTypeStandard    NetworkType = "standard"
	NetworkTypeDistributed NetworkType = "distributed"
)

// Network is a port group. Distributed port groups carry a key; standard
// port groups generally only a name.
type Network struct {
	Name        string      `json:"name,omitempty"`
	Key         string      `json:"key,omitempty"`
	Type        NetworkType `json:"type"`
	SwitchName  string      `json:"switch_name,omitempty"`
	SwitchUUID  string      `json:"switch_uuid,omitempty"`
	VLAN        *VLAN       `json:"vlan,omitempty"`
	Ports       *int        `json:"ports_configured,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Kind implements Object
func (n *Network) Kind() Kind { return KindNetwork }

// PrimaryID prefers the key over the name
func (n *Network) PrimaryID() string {
	if n.Key != "" {
		return n.Key
	}
	return n.Name
}

// DisplayLabel implements Object
func (n *Network) DisplayLabel() string { return labelOr(n.Name, n.PrimaryID()) }

// NodeStatus implements Object; port groups carry no status
func (n *Network) NodeStatus() string { return "" }

// Matches reports whether identifier is the network's name or key
func (n *Network) Matches(identifier string) bool {
	if identifier == "" {
		return false
	}
	return n.Name == identifier || n.Key == identifier
}
