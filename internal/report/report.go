// Package report projects a VM and its hosting context into a flat technical
// document.
package report

import (
	"fmt"
	"strconv"
	"time"

	"vspheremap/internal/domain"
)

// GeneratedBy is stamped on every document
const GeneratedBy = "vspheremap"

// VMReport is the technical document of one virtual machine
type VMReport struct {
	GeneratedAt      string            `json:"generated_at_utc"`
	GeneratedBy      string            `json:"generated_by"`
	Identification   Identification    `json:"vm_identification"`
	Compute          ComputeResources  `json:"compute_resources"`
	Storage          []DiskReport      `json:"storage_configuration"`
	Network          []NICReport       `json:"network_configuration"`
	Hosting          HostingContext    `json:"hosting_context"`
	CustomAttributes []CustomAttribute `json:"custom_attributes"`
}

// Identification describes the VM itself
type Identification struct {
	Name         string `json:"vm_name"`
	InstanceUUID string `json:"instance_uuid,omitempty"`
	BIOSUUID     string `json:"bios_uuid,omitempty"`
	VMXPath      string `json:"vmx_path,omitempty"`
	GuestOSFull  string `json:"guest_os_full,omitempty"`
	GuestOSID    string `json:"guest_os_id,omitempty"`
	PowerState   string `json:"power_state,omitempty"`
	ToolsStatus  string `json:"tools_status,omitempty"`
	ToolsVersion string `json:"tools_version,omitempty"`
	ToolsRunning string `json:"tools_running,omitempty"`
	VMVersion    string `json:"vm_version,omitempty"`
	BootTime     string `json:"boot_time,omitempty"`
}

// ComputeResources flattens the CPU and memory allocation
type ComputeResources struct {
	TotalVCPUs        int    `json:"total_vcpus"`
	VirtualSockets    int    `json:"virtual_sockets"`
	CoresPerSocket    int    `json:"cores_per_socket"`
	ConfiguredRAMMB   int64  `json:"configured_ram_mb"`
	CPUReservationMHz int64  `json:"cpu_reservation_mhz"`
	CPULimitMHz       string `json:"cpu_limit_mhz"`
	CPUShares         string `json:"cpu_shares"`
	MemReservationMB  int64  `json:"mem_reservation_mb"`
	MemLimitMB        string `json:"mem_limit_mb"`
	MemShares         string `json:"mem_shares"`
}

// DatastoreInfo is the resolved datastore of a disk
type DatastoreInfo struct {
	Name string `json:"name"`
	UUID string `json:"uuid,omitempty"`
	Type string `json:"type,omitempty"`
}

// DiskReport describes one virtual disk
type DiskReport struct {
	Label            string         `json:"label,omitempty"`
	Key              string         `json:"key"`
	ControllerKey    string         `json:"controller_key,omitempty"`
	CapacityGB       float64        `json:"capacity_gb"`
	ProvisioningType string         `json:"provisioning_type"`
	DiskMode         string         `json:"disk_mode,omitempty"`
	WriteThrough     *bool          `json:"write_through,omitempty"`
	Datastore        *DatastoreInfo `json:"datastore_info,omitempty"`
	VMDKPath         string         `json:"vmdk_path,omitempty"`
	SIOCShares       string         `json:"sioc_shares"`
	SIOCLimitIOPS    string         `json:"sioc_limit_iops"`
}

// ConnectedNetwork is what a NIC is attached to, with details from the
// network inventory when it resolves
type ConnectedNetwork struct {
	ConfiguredName      string `json:"configured_name,omitempty"`
	DeducedType         string `json:"deduced_type"`
	PortgroupKey        string `json:"dpg_key,omitempty"`
	SwitchUUID          string `json:"dvs_uuid,omitempty"`
	CachedPortgroupName string `json:"cached_portgroup_name,omitempty"`
	CachedSwitchName    string `json:"cached_dvs_name,omitempty"`
	CachedVLANInfo      string `json:"cached_vlan_info,omitempty"`
}

// NICReport describes one network adapter
type NICReport struct {
	Label              string           `json:"label,omitempty"`
	Key                string           `json:"key"`
	AdapterType        string           `json:"adapter_type,omitempty"`
	MACAddress         string           `json:"mac_address,omitempty"`
	MACAddressType     string           `json:"mac_address_type,omitempty"`
	ConnectedAtPowerOn bool             `json:"connected_at_poweron"`
	GuestNetConnected  *bool            `json:"guest_net_connected_status,omitempty"`
	ConnectedNetwork   ConnectedNetwork `json:"connected_network_info"`
	GuestIPs           []string         `json:"guest_ips"`
}

// HostInfo summarizes the host running the VM
type HostInfo struct {
	Name        string `json:"name"`
	Model       string `json:"model,omitempty"`
	ESXiVersion string `json:"esxi_version,omitempty"`
	Status      string `json:"status,omitempty"`
	BIOSUUID    string `json:"bios_uuid,omitempty"`
}

// ClusterInfo summarizes the cluster of the host
type ClusterInfo struct {
	Name          string `json:"name"`
	OverallStatus string `json:"overall_status,omitempty"`
	HAEnabled     *bool  `json:"ha_enabled,omitempty"`
	DRSEnabled    *bool  `json:"drs_enabled,omitempty"`
	DRSBehavior   string `json:"drs_behavior,omitempty"`
}

// HostingContext places the VM in the datacenter tree
type HostingContext struct {
	Host           *HostInfo    `json:"host"`
	Cluster        *ClusterInfo `json:"cluster"`
	DatacenterName string       `json:"datacenter_name,omitempty"`
}

// CustomAttribute is one name/value annotation
type CustomAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Provisioning types
const (
	ProvisioningThin    = "Thin Provisioned"
	ProvisioningThick   = "Thick Provisioned"
	ProvisioningUnknown = "N/A"
)

// Network types deduced from the NIC backing
const (
	NetworkDistributed = "Distributed"
	NetworkStandard    = "Standard"
)

// GenerateVMReport builds the document of the VM matching identifier
func GenerateVMReport(snap *domain.Snapshot, identifier string, now time.Time) (*VMReport, error) {
	if snap == nil {
		return nil, domain.ErrUnavailable
	}
	vm, ok := snap.FindVM(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: VM %q", domain.ErrNotFound, identifier)
	}

	r := &VMReport{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		GeneratedBy: GeneratedBy,
		Identification: Identification{
			Name:         vm.Name,
			InstanceUUID: vm.InstanceUUID,
			BIOSUUID:     vm.BIOSUUID,
			VMXPath:      vm.VMXPath,
			GuestOSFull:  vm.GuestOSFull,
			GuestOSID:    vm.GuestOSID,
			PowerState:   vm.PowerState,
			ToolsStatus:  vm.ToolsStatus,
			ToolsVersion: vm.ToolsVersion,
			ToolsRunning: vm.ToolsRunning,
			VMVersion:    vm.VMVersion,
			BootTime:     vm.BootTime,
		},
		Compute:          compute(vm),
		Storage:          make([]DiskReport, 0, len(vm.Disks)),
		Network:          make([]NICReport, 0, len(vm.NICs)),
		CustomAttributes: make([]CustomAttribute, 0, len(vm.CustomAttributes)),
	}

	for _, d := range vm.Disks {
		r.Storage = append(r.Storage, disk(snap, d))
	}
	for _, n := range vm.NICs {
		r.Network = append(r.Network, nic(snap, n))
	}
	r.Hosting = hosting(snap, vm)
	for _, name := range vm.AttributeNames() {
		r.CustomAttributes = append(r.CustomAttributes, CustomAttribute{Name: name, Value: vm.CustomAttributes[name]})
	}

	return r, nil
}

func compute(vm *domain.VM) ComputeResources {
	sockets := vm.VCPUs
	if vm.CoresPerSocket > 0 {
		sockets = vm.VCPUs / vm.CoresPerSocket
	}
	return ComputeResources{
		TotalVCPUs:        vm.VCPUs,
		VirtualSockets:    sockets,
		CoresPerSocket:    vm.CoresPerSocket,
		ConfiguredRAMMB:   vm.RAMMB,
		CPUReservationMHz: vm.CPUReservationMHz,
		CPULimitMHz:       vm.CPULimitMHz.String(),
		CPUShares:         vm.CPUShares.String(),
		MemReservationMB:  vm.MemReservationMB,
		MemLimitMB:        vm.MemLimitMB.String(),
		MemShares:         vm.MemShares.String(),
	}
}

func disk(snap *domain.Snapshot, d domain.Disk) DiskReport {
	out := DiskReport{
		Label:            d.Label,
		Key:              strconv.Itoa(d.Key),
		CapacityGB:       d.CapacityGB,
		ProvisioningType: ProvisioningUnknown,
		DiskMode:         d.DiskMode,
		WriteThrough:     d.WriteThrough,
		VMDKPath:         d.VMDKPath,
		SIOCShares:       d.SIOCShares.String(),
		SIOCLimitIOPS:    d.SIOCLimitIOPS.String(),
	}
	if d.ControllerKey != nil {
		out.ControllerKey = strconv.Itoa(*d.ControllerKey)
	}
	if d.ThinProvisioned != nil {
		out.ProvisioningType = ProvisioningThick
		if *d.ThinProvisioned {
			out.ProvisioningType = ProvisioningThin
		}
	}
	if ds, ok := snap.FindDatastore(d.DatastoreName); ok {
		out.Datastore = &DatastoreInfo{Name: ds.Name, UUID: ds.UUID, Type: ds.Type}
	}
	return out
}

func nic(snap *domain.Snapshot, n domain.NIC) NICReport {
	connected := ConnectedNetwork{
		ConfiguredName: n.NetworkName,
		DeducedType:    NetworkStandard,
		PortgroupKey:   n.PortgroupKey,
		SwitchUUID:     n.SwitchUUID,
	}
	lookup := n.NetworkName
	if n.IsDistributed() {
		connected.DeducedType = NetworkDistributed
		lookup = n.PortgroupKey
	}
	if network, ok := snap.FindNetwork(lookup); ok {
		connected.CachedPortgroupName = network.Name
		connected.CachedSwitchName = network.SwitchName
		connected.CachedVLANInfo = network.VLAN.String()
	}

	ips := n.GuestIPs
	if ips == nil {
		ips = []string{}
	}
	return NICReport{
		Label:              n.Label,
		Key:                strconv.Itoa(n.Key),
		AdapterType:        n.AdapterType,
		MACAddress:         n.MACAddress,
		MACAddressType:     n.MACAddressType,
		ConnectedAtPowerOn: n.ConnectedAtPowerOn,
		GuestNetConnected:  n.GuestNetConnected,
		ConnectedNetwork:   connected,
		GuestIPs:           ips,
	}
}

func hosting(snap *domain.Snapshot, vm *domain.VM) HostingContext {
	var ctx HostingContext
	host, ok := snap.FindHost(vm.HostName)
	if !ok {
		return ctx
	}
	ctx.Host = &HostInfo{
		Name:        host.Name,
		Model:       host.Model,
		ESXiVersion: host.VersionFull,
		Status:      host.NodeStatus(),
		BIOSUUID:    host.BIOSUUID,
	}
	if cluster, ok := snap.FindClusterContaining(host); ok {
		ctx.Cluster = &ClusterInfo{
			Name:          cluster.Name,
			OverallStatus: cluster.Status,
			HAEnabled:     cluster.HAEnabled,
			DRSEnabled:    cluster.DRSEnabled,
			DRSBehavior:   cluster.DRSBehavior,
		}
	}
	if dc, ok := snap.FindDatacenterOf(host); ok {
		ctx.DatacenterName = dc.Name
	}
	return ctx
}
