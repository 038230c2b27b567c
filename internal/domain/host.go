package domain

// Host represents an ESXi host
type Host struct {
	Name            string  `json:"name"`
	BIOSUUID        string  `json:"uuid_bios,omitempty"`
	Status          string  `json:"status,omitempty"`
	PowerState      string  `json:"power_state,omitempty"`
	ConnectionState string  `json:"connection_state,omitempty"`
	MaintenanceMode bool    `json:"maintenance_mode"`
	BootTime        string  `json:"boot_time,omitempty"`
	VersionFull     string  `json:"version_full,omitempty"`
	VersionBuild    string  `json:"version_build,omitempty"`
	Vendor          string  `json:"vendor,omitempty"`
	Model           string  `json:"model,omitempty"`
	CPUModel        string  `json:"cpu_model,omitempty"`
	CPUSockets      int     `json:"cpu_sockets"`
	CPUCores        int     `json:"cpu_total_cores"`
	CPUThreads      int     `json:"cpu_threads"`
	CPUMHz          int     `json:"cpu_mhz"`
	MemoryGB        float64 `json:"memory_gb"`
}

// Kind implements Object
func (h *Host) Kind() Kind { return KindHost }

// PrimaryID prefers the hardware UUID over the name
func (h *Host) PrimaryID() string {
	if h.BIOSUUID != "" {
		return h.BIOSUUID
	}
	return h.Name
}

// DisplayLabel implements Object
func (h *Host) DisplayLabel() string { return labelOr(h.Name, h.PrimaryID()) }

// NodeStatus falls back to the power state when no overall status is known
func (h *Host) NodeStatus() string {
	if h.Status != "" {
		return h.Status
	}
	return h.PowerState
}

// SameHost matches by hardware UUID when both sides carry one, otherwise by name
func (h *Host) SameHost(other *Host) bool {
	if h == nil || other == nil {
		return false
	}
	if h.BIOSUUID != "" && h.BIOSUUID == other.BIOSUUID {
		return true
	}
	return h.Name != "" && h.Name == other.Name
}

// Cluster groups hosts; membership is by identity, not ownership
type Cluster struct {
	Name        string `json:"name"`
	Status      string `json:"overall_status,omitempty"`
	HAEnabled   *bool  `json:"ha_enabled,omitempty"`
	DRSEnabled  *bool  `json:"drs_enabled,omitempty"`
	DRSBehavior string `json:"drs_behavior,omitempty"`
	Hosts       []Host `json:"hosts,omitempty"`
}

// Kind implements Object
func (c *Cluster) Kind() Kind { return KindCluster }

// PrimaryID implements Object
func (c *Cluster) PrimaryID() string { return c.Name }

// DisplayLabel implements Object
func (c *Cluster) DisplayLabel() string { return c.Name }

// NodeStatus implements Object
func (c *Cluster) NodeStatus() string { return c.Status }

// Contains reports whether host is one of the cluster's members
func (c *Cluster) Contains(host *Host) bool {
	for i := range c.Hosts {
		if c.Hosts[i].SameHost(host) {
			return true
		}
	}
	return false
}

// Datacenter holds clusters and hosts that are not part of any cluster
type Datacenter struct {
	Name            string    `json:"name"`
	Status          string    `json:"overall_status,omitempty"`
	Clusters        []Cluster `json:"clusters,omitempty"`
	StandaloneHosts []Host    `json:"standalone_hosts,omitempty"`
}
