package domain

import "sort"

// VM represents a virtual machine in the inventory
type VM struct {
	Name         string `json:"name"`
	InstanceUUID string `json:"instance_uuid,omitempty"`
	BIOSUUID     string `json:"bios_uuid,omitempty"`
	VMXPath      string `json:"vmx_path,omitempty"`
	GuestOSFull  string `json:"guest_os_full,omitempty"`
	GuestOSID    string `json:"guest_os_id,omitempty"`
	VMVersion    string `json:"vm_version,omitempty"`
	ToolsStatus  string `json:"tools_status,omitempty"`
	ToolsVersion string `json:"tools_version,omitempty"`
	ToolsRunning string `json:"tools_running,omitempty"`
	PowerState   string `json:"power_state,omitempty"`
	BootTime     string `json:"boot_time,omitempty"`
	HostName     string `json:"host_name,omitempty"`

	// Compute allocation
	VCPUs             int    `json:"vcpus"`
	CoresPerSocket    int    `json:"cores_per_socket"`
	RAMMB             int64  `json:"ram_mb"`
	CPUReservationMHz int64  `json:"cpu_reservation_mhz"`
	CPULimitMHz       Limit  `json:"cpu_limit_mhz"`
	CPUShares         Shares `json:"cpu_shares"`
	MemReservationMB  int64  `json:"mem_reservation_mb"`
	MemLimitMB        Limit  `json:"mem_limit_mb"`
	MemShares         Shares `json:"mem_shares"`

	Disks            []Disk            `json:"disks,omitempty"`
	NICs             []NIC             `json:"network_adapters,omitempty"`
	CustomAttributes map[string]string `json:"custom_attributes,omitempty"`
}

// Disk is a virtual disk; the datastore is referenced by name
type Disk struct {
	Label           string  `json:"label,omitempty"`
	Key             int     `json:"key"`
	ControllerKey   *int    `json:"controller_key,omitempty"`
	CapacityGB      float64 `json:"capacity_gb"`
	DatastoreName   string  `json:"datastore_name,omitempty"`
	VMDKPath        string  `json:"vmdk_path,omitempty"`
	DiskMode        string  `json:"disk_mode,omitempty"`
	ThinProvisioned *bool   `json:"thin_provisioned,omitempty"`
	WriteThrough    *bool   `json:"write_through,omitempty"`
	SIOCShares      Shares  `json:"sioc_shares"`
	SIOCLimitIOPS   Limit   `json:"sioc_limit_iops"`
}

// NIC is a virtual network adapter. Standard port groups are referenced by
// NetworkName, distributed port groups by PortgroupKey.
type NIC struct {
	Label              string   `json:"label,omitempty"`
	Key                int      `json:"key"`
	AdapterType        string   `json:"adapter_type,omitempty"`
	MACAddress         string   `json:"mac_address,omitempty"`
	MACAddressType     string   `json:"mac_address_type,omitempty"`
	Connected          bool     `json:"connected"`
	ConnectedAtPowerOn bool     `json:"connected_at_poweron"`
	GuestNetConnected  *bool    `json:"guest_net_connected,omitempty"`
	NetworkName        string   `json:"network_name,omitempty"`
	PortgroupKey       string   `json:"portgroup_key,omitempty"`
	SwitchUUID         string   `json:"switch_uuid,omitempty"`
	GuestIPs           []string `json:"guest_ips,omitempty"`
}

// IsDistributed reports whether the NIC is backed by a distributed port group
func (n NIC) IsDistributed() bool {
	return n.PortgroupKey != ""
}

// Kind implements Object
func (v *VM) Kind() Kind { return KindVM }

// PrimaryID prefers the instance UUID over the name
func (v *VM) PrimaryID() string {
	if v.InstanceUUID != "" {
		return v.InstanceUUID
	}
	return v.Name
}

// DisplayLabel implements Object
func (v *VM) DisplayLabel() string { return labelOr(v.Name, v.PrimaryID()) }

// NodeStatus implements Object
func (v *VM) NodeStatus() string { return v.PowerState }

// Matches reports whether identifier names this VM by instance UUID or name
func (v *VM) Matches(identifier string) bool {
	if identifier == "" {
		return false
	}
	return (v.InstanceUUID != "" && v.InstanceUUID == identifier) || v.Name == identifier
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

// AttributeNames returns the custom attribute names in sorted order
func (v *VM) AttributeNames() []string {
	names := make([]string, 0, len(v.CustomAttributes))
	for name := range v.CustomAttributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
