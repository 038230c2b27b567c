package codec

import (
	"strings"

	"vspheremap/internal/domain"
)

// rawExport mirrors the document written by the vSphere collector. Leaf
// values are scalars because the collector writes "N/A" wherever a value is
// missing, whatever its type.
type rawExport struct {
	VCenter        *rawVCenter       `json:"vcenter_details" yaml:"vcenter_details"`
	Infrastructure rawInfrastructure `json:"infrastructure" yaml:"infrastructure"`
	Datastores     []rawDatastore    `json:"datastores" yaml:"datastores"`
	Networks       rawNetworks       `json:"global_networks" yaml:"global_networks"`
	VMs            []rawVM           `json:"vms" yaml:"vms"`
}

type rawVCenter struct {
	FullName     scalar `json:"fullName" yaml:"fullName"`
	Version      scalar `json:"version" yaml:"version"`
	Build        scalar `json:"build" yaml:"build"`
	InstanceUUID scalar `json:"instanceUuid" yaml:"instanceUuid"`
}

type rawInfrastructure struct {
	Datacenters []rawDatacenter `json:"datacenters" yaml:"datacenters"`
}

type rawDatacenter struct {
	Name            scalar       `json:"name" yaml:"name"`
	OverallStatus   scalar       `json:"overallStatus" yaml:"overallStatus"`
	Clusters        []rawCluster `json:"clusters" yaml:"clusters"`
	StandaloneHosts []rawHost    `json:"standalone_hosts" yaml:"standalone_hosts"`
}

type rawCluster struct {
	Name          scalar    `json:"name" yaml:"name"`
	OverallStatus scalar    `json:"overallStatus" yaml:"overallStatus"`
	HAEnabled     scalar    `json:"ha_enabled" yaml:"ha_enabled"`
	DRSEnabled    scalar    `json:"drs_enabled" yaml:"drs_enabled"`
	DRSBehavior   scalar    `json:"drs_behavior" yaml:"drs_behavior"`
	Hosts         []rawHost `json:"hosts" yaml:"hosts"`
}

type rawHost struct {
	Name            scalar `json:"name" yaml:"name"`
	Status          scalar `json:"status" yaml:"status"`
	PowerState      scalar `json:"power_state" yaml:"power_state"`
	ConnectionState scalar `json:"connection_state" yaml:"connection_state"`
	MaintenanceMode scalar `json:"maintenance_mode" yaml:"maintenance_mode"`
	BootTime        scalar `json:"boot_time" yaml:"boot_time"`
	VersionFull     scalar `json:"version_full" yaml:"version_full"`
	VersionBuild    scalar `json:"version_build" yaml:"version_build"`
	Vendor          scalar `json:"vendor" yaml:"vendor"`
	Model           scalar `json:"model" yaml:"model"`
	UUIDBios        scalar `json:"uuid_bios" yaml:"uuid_bios"`
	CPUModel        scalar `json:"cpu_model" yaml:"cpu_model"`
	CPUSockets      scalar `json:"cpu_sockets" yaml:"cpu_sockets"`
	CPUTotalCores   scalar `json:"cpu_total_cores" yaml:"cpu_total_cores"`
	CPUThreads      scalar `json:"cpu_threads" yaml:"cpu_threads"`
	CPUMHz          scalar `json:"cpu_mhz" yaml:"cpu_mhz"`
	MemoryGB        scalar `json:"memory_gb" yaml:"memory_gb"`
}

type rawDatastore struct {
	Name            scalar `json:"name" yaml:"name"`
	UUID            scalar `json:"uuid" yaml:"uuid"`
	Type            scalar `json:"type" yaml:"type"`
	CapacityGB      scalar `json:"capacity_gb" yaml:"capacity_gb"`
	FreeSpaceGB     scalar `json:"free_space_gb" yaml:"free_space_gb"`
	Accessible      scalar `json:"accessible" yaml:"accessible"`
	URL             scalar `json:"url" yaml:"url"`
	MaintenanceMode scalar `json:"maintenance_mode" yaml:"maintenance_mode"`
}

type rawNetworks struct {
	Standard    []rawPortGroup `json:"standard_port_groups_summary" yaml:"standard_port_groups_summary"`
	Distributed []rawPortGroup `json:"distributed_port_groups" yaml:"distributed_port_groups"`
}

type rawPortGroup struct {
	Name            scalar `json:"name" yaml:"name"`
	Key             scalar `json:"key" yaml:"key"`
	DVSwitchName    scalar `json:"dvswitch_name" yaml:"dvswitch_name"`
	DVSwitchUUID    scalar `json:"dvswitch_uuid" yaml:"dvswitch_uuid"`
	VLANInfo        scalar `json:"vlan_id_info" yaml:"vlan_id_info"`
	PortsConfigured scalar `json:"ports_configured" yaml:"ports_configured"`
	Description     scalar `json:"description" yaml:"description"`
}

type rawVM struct {
	Name              scalar            `json:"name" yaml:"name"`
	InstanceUUID      scalar            `json:"instance_uuid" yaml:"instance_uuid"`
	BIOSUUID          scalar            `json:"bios_uuid" yaml:"bios_uuid"`
	VMXPath           scalar            `json:"vmx_path" yaml:"vmx_path"`
	GuestOSFull       scalar            `json:"guest_os_full" yaml:"guest_os_full"`
	GuestOSID         scalar            `json:"guest_os_id" yaml:"guest_os_id"`
	VMVersion         scalar            `json:"vm_version" yaml:"vm_version"`
	ToolsStatus       scalar            `json:"tools_status" yaml:"tools_status"`
	ToolsVersion      scalar            `json:"tools_version" yaml:"tools_version"`
	ToolsRunning      scalar            `json:"tools_running" yaml:"tools_running"`
	PowerState        scalar            `json:"power_state" yaml:"power_state"`
	BootTime          scalar            `json:"boot_time" yaml:"boot_time"`
	HostName          scalar            `json:"host_name" yaml:"host_name"`
	VCPUs             scalar            `json:"vcpus" yaml:"vcpus"`
	CoresPerSocket    scalar            `json:"cores_per_socket" yaml:"cores_per_socket"`
	RAMMB             scalar            `json:"ram_mb" yaml:"ram_mb"`
	CPUReservationMHz scalar            `json:"cpu_reservation_mhz" yaml:"cpu_reservation_mhz"`
	CPULimitMHz       scalar            `json:"cpu_limit_mhz" yaml:"cpu_limit_mhz"`
	CPUShares         scalar            `json:"cpu_shares" yaml:"cpu_shares"`
	CPUSharesLevel    scalar            `json:"cpu_shares_level" yaml:"cpu_shares_level"`
	MemReservationMB  scalar            `json:"mem_reservation_mb" yaml:"mem_reservation_mb"`
	MemLimitMB        scalar            `json:"mem_limit_mb" yaml:"mem_limit_mb"`
	MemShares         scalar            `json:"mem_shares" yaml:"mem_shares"`
	MemSharesLevel    scalar            `json:"mem_shares_level" yaml:"mem_shares_level"`
	Disks             []rawDisk         `json:"disks" yaml:"disks"`
	NICs              []rawNIC          `json:"network_adapters" yaml:"network_adapters"`
	CustomAttributes  map[string]scalar `json:"custom_attributes" yaml:"custom_attributes"`
}

type rawDisk struct {
	Key             scalar `json:"key" yaml:"key"`
	ControllerKey   scalar `json:"controller_key" yaml:"controller_key"`
	Label           scalar `json:"label" yaml:"label"`
	CapacityGB      scalar `json:"capacity_gb" yaml:"capacity_gb"`
	DatastoreName   scalar `json:"datastore_name" yaml:"datastore_name"`
	VMDKPath        scalar `json:"vmdk_path" yaml:"vmdk_path"`
	DiskMode        scalar `json:"disk_mode" yaml:"disk_mode"`
	ThinProvisioned scalar `json:"thin_provisioned" yaml:"thin_provisioned"`
	WriteThrough    scalar `json:"write_through" yaml:"write_through"`
	SIOCShares      scalar `json:"sioc_shares" yaml:"sioc_shares"`
	SIOCSharesLevel scalar `json:"sioc_shares_level" yaml:"sioc_shares_level"`
	SIOCLimitIOPS   scalar `json:"sioc_limit_iops" yaml:"sioc_limit_iops"`
}

type rawNIC struct {
	Key                scalar   `json:"key" yaml:"key"`
	Label              scalar   `json:"label" yaml:"label"`
	AdapterType        scalar   `json:"adapter_type" yaml:"adapter_type"`
	MACAddress         scalar   `json:"mac_address" yaml:"mac_address"`
	MACAddressType     scalar   `json:"mac_address_type" yaml:"mac_address_type"`
	Connected          scalar   `json:"connected" yaml:"connected"`
	ConnectedAtPowerOn scalar   `json:"connected_at_poweron" yaml:"connected_at_poweron"`
	GuestNetConnected  scalar   `json:"guest_net_connected" yaml:"guest_net_connected"`
	NetworkName        scalar   `json:"network_name" yaml:"network_name"`
	PortgroupKey       scalar   `json:"portgroup_key_if_dvs" yaml:"portgroup_key_if_dvs"`
	SwitchUUID         scalar   `json:"switch_uuid_if_dvs" yaml:"switch_uuid_if_dvs"`
	GuestIPs           []string `json:"guest_ips" yaml:"guest_ips"`
}

// toSnapshot maps the raw export onto the typed inventory model.
// Unrecognized VLAN text is kept verbatim rather than failing the import.
func (e *rawExport) toSnapshot() *domain.Snapshot {
	snap := &domain.Snapshot{
		VMs:        make([]domain.VM, 0, len(e.VMs)),
		Datastores: make([]domain.Datastore, 0, len(e.Datastores)),
	}

	if e.VCenter != nil {
		snap.VCenter = &domain.VCenter{
			FullName:     e.VCenter.FullName.text(),
			Version:      e.VCenter.Version.text(),
			Build:        e.VCenter.Build.text(),
			InstanceUUID: e.VCenter.InstanceUUID.text(),
		}
	}

	for _, rdc := range e.Infrastructure.Datacenters {
		dc := domain.Datacenter{Name: rdc.Name.text(), Status: rdc.OverallStatus.text()}
		for _, rc := range rdc.Clusters {
			cluster := domain.Cluster{
				Name:        rc.Name.text(),
				Status:      rc.OverallStatus.text(),
				HAEnabled:   rc.HAEnabled.boolPtr(),
				DRSEnabled:  rc.DRSEnabled.boolPtr(),
				DRSBehavior: rc.DRSBehavior.text(),
			}
			for _, rh := range rc.Hosts {
				cluster.Hosts = append(cluster.Hosts, rh.toHost())
			}
			dc.Clusters = append(dc.Clusters, cluster)
		}
		for _, rh := range rdc.StandaloneHosts {
			dc.StandaloneHosts = append(dc.StandaloneHosts, rh.toHost())
		}
		snap.Infrastructure.Datacenters = append(snap.Infrastructure.Datacenters, dc)
	}

	for _, rd := range e.Datastores {
		snap.Datastores = append(snap.Datastores, domain.Datastore{
			Name:            rd.Name.text(),
			UUID:            rd.UUID.text(),
			Type:            rd.Type.text(),
			CapacityGB:      rd.CapacityGB.float(),
			FreeSpaceGB:     rd.FreeSpaceGB.float(),
			Accessible:      rd.Accessible.boolean(),
			URL:             rd.URL.text(),
			MaintenanceMode: rd.MaintenanceMode.text(),
		})
	}

	for _, rp := range e.Networks.Standard {
		snap.Networks.Standard = append(snap.Networks.Standard, domain.Network{
			Name: rp.Name.text(),
			Key:  rp.Key.text(),
			Type: domain.NetworkTypeStandard,
		})
	}
	for _, rp := range e.Networks.Distributed {
		network := domain.Network{
			Name:        rp.Name.text(),
			Key:         rp.Key.text(),
			Type:        domain.NetworkTypeDistributed,
			SwitchName:  rp.DVSwitchName.text(),
			SwitchUUID:  rp.DVSwitchUUID.text(),
			Ports:       rp.PortsConfigured.intPtr(),
			Description: rp.Description.text(),
		}
		info := rp.VLANInfo.text()
		if vlan, err := ParseVLAN(info); err == nil {
			network.VLAN = vlan
		} else {
			network.VLAN = &domain.VLAN{Mode: domain.VLANModeRaw, Text: strings.TrimSpace(info)}
		}
		snap.Networks.Distributed = append(snap.Networks.Distributed, network)
	}

	for _, rv := range e.VMs {
		snap.VMs = append(snap.VMs, rv.toVM())
	}

	return snap
}

func (h rawHost) toHost() domain.Host {
	return domain.Host{
		Name:            h.Name.text(),
		BIOSUUID:        h.UUIDBios.text(),
		Status:          h.Status.text(),
		PowerState:      h.PowerState.text(),
		ConnectionState: h.ConnectionState.text(),
		MaintenanceMode: h.MaintenanceMode.boolean(),
		BootTime:        h.BootTime.text(),
		VersionFull:     h.VersionFull.text(),
		VersionBuild:    h.VersionBuild.text(),
		Vendor:          h.Vendor.text(),
		Model:           h.Model.text(),
		CPUModel:        h.CPUModel.text(),
		CPUSockets:      h.CPUSockets.intOr(0),
		CPUCores:        h.CPUTotalCores.intOr(0),
		CPUThreads:      h.CPUThreads.intOr(0),
		CPUMHz:          h.CPUMHz.intOr(0),
		MemoryGB:        h.MemoryGB.float(),
	}
}

func (v rawVM) toVM() domain.VM {
	vm := domain.VM{
		Name:              v.Name.text(),
		InstanceUUID:      v.InstanceUUID.text(),
		BIOSUUID:          v.BIOSUUID.text(),
		VMXPath:           v.VMXPath.text(),
		GuestOSFull:       v.GuestOSFull.text(),
		GuestOSID:         v.GuestOSID.text(),
		VMVersion:         v.VMVersion.text(),
		ToolsStatus:       v.ToolsStatus.text(),
		ToolsVersion:      v.ToolsVersion.text(),
		ToolsRunning:      v.ToolsRunning.text(),
		PowerState:        v.PowerState.text(),
		BootTime:          v.BootTime.text(),
		HostName:          v.HostName.text(),
		VCPUs:             v.VCPUs.intOr(0),
		CoresPerSocket:    v.CoresPerSocket.intOr(0),
		RAMMB:             int64(v.RAMMB.intOr(0)),
		CPUReservationMHz: int64(v.CPUReservationMHz.intOr(0)),
		CPULimitMHz:       toLimit(v.CPULimitMHz),
		CPUShares:         toShares(v.CPUShares, v.CPUSharesLevel),
		MemReservationMB:  int64(v.MemReservationMB.intOr(0)),
		MemLimitMB:        toLimit(v.MemLimitMB),
		MemShares:         toShares(v.MemShares, v.MemSharesLevel),
	}

	for _, d := range v.Disks {
		vm.Disks = append(vm.Disks, domain.Disk{
			Label:           d.Label.text(),
			Key:             d.Key.intOr(0),
			ControllerKey:   d.ControllerKey.intPtr(),
			CapacityGB:      d.CapacityGB.float(),
			DatastoreName:   d.DatastoreName.text(),
			VMDKPath:        d.VMDKPath.text(),
			DiskMode:        d.DiskMode.text(),
			ThinProvisioned: d.ThinProvisioned.boolPtr(),
			WriteThrough:    d.WriteThrough.boolPtr(),
			SIOCShares:      toShares(d.SIOCShares, d.SIOCSharesLevel),
			SIOCLimitIOPS:   toLimit(d.SIOCLimitIOPS),
		})
	}

	for _, n := range v.NICs {
		vm.NICs = append(vm.NICs, domain.NIC{
			Label:              n.Label.text(),
			Key:                n.Key.intOr(0),
			AdapterType:        n.AdapterType.text(),
			MACAddress:         n.MACAddress.text(),
			MACAddressType:     n.MACAddressType.text(),
			Connected:          n.Connected.boolean(),
			ConnectedAtPowerOn: n.ConnectedAtPowerOn.boolean(),
			GuestNetConnected:  n.GuestNetConnected.boolPtr(),
			NetworkName:        n.NetworkName.text(),
			PortgroupKey:       n.PortgroupKey.text(),
			SwitchUUID:         n.SwitchUUID.text(),
			GuestIPs:           n.GuestIPs,
		})
	}

	if len(v.CustomAttributes) > 0 {
		vm.CustomAttributes = make(map[string]string, len(v.CustomAttributes))
		for name, value := range v.CustomAttributes {
			vm.CustomAttributes[name] = value.raw
		}
	}
	return vm
}

// toLimit maps the collector's -1 sentinel (and missing values) to Unlimited
func toLimit(s scalar) domain.Limit {
	v, ok := s.int64()
	if !ok || v < 0 {
		return domain.Unlimited()
	}
	return domain.LimitOf(v)
}

func toShares(count, level scalar) domain.Shares {
	shares := domain.Shares{Level: level.text()}
	if v, ok := count.int64(); ok {
		shares.Count = &v
	}
	return shares
}
