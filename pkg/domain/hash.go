package domain

// Digest is a single computed hash value.
type Digest struct {
	Algorithm string `json:"algorithm"`
	Hex       string `json:"hex"`
	// Source names what was hashed: a file path or "string".
	Source string `json:"source,omitempty"`
}
