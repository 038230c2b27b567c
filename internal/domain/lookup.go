package domain

// FindVM returns the VM whose instance UUID equals identifier, else the first
// VM whose name equals it.
func (s *Snapshot) FindVM(identifier string) (*VM, bool) {
	if identifier == "" {
		return nil, false
	}
	for i := range s.VMs {
		if s.VMs[i].InstanceUUID == identifier {
			return &s.VMs[i], true
		}
	}
	for i := range s.VMs {
		if s.VMs[i].Name == identifier {
			return &s.VMs[i], true
		}
	}
	return nil, false
}

// FindHost scans clusters, then standalone hosts, of every datacenter
func (s *Snapshot) FindHost(name string) (*Host, bool) {
	if name == "" {
		return nil, false
	}
	for d := range s.Infrastructure.Datacenters {
		dc := &s.Infrastructure.Datacenters[d]
		for c := range dc.Clusters {
			for h := range dc.Clusters[c].Hosts {
				if dc.Clusters[c].Hosts[h].Name == name {
					return &dc.Clusters[c].Hosts[h], true
				}
			}
		}
		for h := range dc.StandaloneHosts {
			if dc.StandaloneHosts[h].Name == name {
				return &dc.StandaloneHosts[h], true
			}
		}
	}
	return nil, false
}

// FindDatastore matches by name
func (s *Snapshot) FindDatastore(name string) (*Datastore, bool) {
	if name == "" {
		return nil, false
	}
	for i := range s.Datastores {
		if s.Datastores[i].Name == name {
			return &s.Datastores[i], true
		}
	}
	return nil, false
}

// FindNetwork scans standard port groups, then distributed port groups, for a
// name or key match
func (s *Snapshot) FindNetwork(identifier string) (*Network, bool) {
	if identifier == "" {
		return nil, false
	}
	for i := range s.Networks.Standard {
		if s.Networks.Standard[i].Matches(identifier) {
			return &s.Networks.Standard[i], true
		}
	}
	for i := range s.Networks.Distributed {
		if s.Networks.Distributed[i].Matches(identifier) {
			return &s.Networks.Distributed[i], true
		}
	}
	return nil, false
}

// FindClusterContaining returns the first cluster listing host as a member
func (s *Snapshot) FindClusterContaining(host *Host) (*Cluster, bool) {
	if host == nil {
		return nil, false
	}
	for d := range s.Infrastructure.Datacenters {
		dc := &s.Infrastructure.Datacenters[d]
		for c := range dc.Clusters {
			if dc.Clusters[c].Contains(host) {
				return &dc.Clusters[c], true
			}
		}
	}
	return nil, false
}

// FindDatacenterOf returns the datacenter holding host, either through one of
// its clusters or as a standalone host
func (s *Snapshot) FindDatacenterOf(host *Host) (*Datacenter, bool) {
	if host == nil {
		return nil, false
	}
	for d := range s.Infrastructure.Datacenters {
		dc := &s.Infrastructure.Datacenters[d]
		for c := range dc.Clusters {
			if dc.Clusters[c].Contains(host) {
				return dc, true
			}
		}
		for h := range dc.StandaloneHosts {
			if dc.StandaloneHosts[h].SameHost(host) {
				return dc, true
			}
		}
	}
	return nil, false
}

// AllHosts flattens the datacenter tree, clustered hosts first
func (s *Snapshot) AllHosts() []Host {
	var hosts []Host
	for _, dc := range s.Infrastructure.Datacenters {
		for _, c := range dc.Clusters {
			hosts = append(hosts, c.Hosts...)
		}
		hosts = append(hosts, dc.StandaloneHosts...)
	}
	return hosts
}

// AllClusters flattens the clusters of every datacenter
func (s *Snapshot) AllClusters() []Cluster {
	var clusters []Cluster
	for _, dc := range s.Infrastructure.Datacenters {
		clusters = append(clusters, dc.Clusters...)
	}
	return clusters
}

// AllNetworks returns standard port groups followed by distributed ones
func (s *Snapshot) AllNetworks() []Network {
	networks := make([]Network, 0, len(s.Networks.Standard)+len(s.Networks.Distributed))
	networks = append(networks, s.Networks.Standard...)
	return append(networks, s.Networks.Distributed...)
}
