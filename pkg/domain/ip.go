package domain

// IPInfo classifies a single IP address.
type IPInfo struct {
	Address       string `json:"address"`
	Version       int    `json:"version"`
	Loopback      bool   `json:"loopback"`
	Private       bool   `json:"private"`
	LinkLocal     bool   `json:"linkLocal"`
	Multicast     bool   `json:"multicast"`
	Unspecified   bool   `json:"unspecified"`
	GlobalUnicast bool   `json:"globalUnicast"`
	Reserved      bool   `json:"reserved"`
	// Scope is a single word summary: loopback, private, link-local, multicast,
	// unspecified, reserved or public.
	Scope string `json:"scope"`
}

// NetworkInfo describes a CIDR block.
type NetworkInfo struct {
	CIDR      string `json:"cidr"`
	Network   string `json:"network"`
	Broadcast string `json:"broadcast,omitempty"`
	Netmask   string `json:"netmask,omitempty"`
	Prefix    int    `json:"prefix"`
	FirstHost string `json:"firstHost"`
	LastHost  string `json:"lastHost"`
	// HostCount is the number of usable addresses, saturated at MaxUint64 for
	// very large IPv6 networks.
	HostCount uint64 `json:"hostCount"`
}
