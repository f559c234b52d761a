package domain

import "time"

// CertInfo describes a single certificate in a presented chain.
type CertInfo struct {
	Subject            string    `json:"subject"`
	Issuer             string    `json:"issuer"`
	DNSNames           []string  `json:"dnsNames,omitempty"`
	IPAddresses        []string  `json:"ipAddresses,omitempty"`
	SerialNumber       string    `json:"serialNumber"`
	NotBefore          time.Time `json:"notBefore"`
	NotAfter           time.Time `json:"notAfter"`
	Fingerprint        string    `json:"fingerprint"`
	SignatureAlgorithm string    `json:"signatureAlgorithm"`
	KeyAlgorithm       string    `json:"keyAlgorithm"`
	KeyBits            int       `json:"keyBits"`
	IsCA               bool      `json:"isCA"`
}

// CertReport is the outcome of validating a TLS endpoint or a PEM bundle.
type CertReport struct {
	Host          string     `json:"host"`
	Port          int        `json:"port,omitempty"`
	TLSVersion    string     `json:"tlsVersion,omitempty"`
	CipherSuite   string     `json:"cipherSuite,omitempty"`
	Leaf          CertInfo   `json:"leaf"`
	Chain         []CertInfo `json:"chain,omitempty"`
	DaysRemaining int        `json:"daysRemaining"`
	ChainValid    bool       `json:"chainValid"`
	HostnameMatch bool       `json:"hostnameMatch"`
	SelfSigned    bool       `json:"selfSigned"`
	Findings      []Finding  `json:"findings,omitempty"`
	// Valid is true when no finding is high or critical.
	Valid     bool      `json:"valid"`
	CheckedAt time.Time `json:"checkedAt"`
}
