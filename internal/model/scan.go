package model

// ScanResult holds the fields extracted from a captured product image.
// All fields are best effort: extraction failures leave them empty
// rather than erroring, so a zero ScanResult means "nothing recovered".
type ScanResult struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	ExpiryDate string `json:"expiryDate,omitempty"` // YYYY-MM-DD, empty when not found
}

// Complete reports whether the result can be saved without manual
// review: both a name and an expiry date were recovered.
func (r ScanResult) Complete() bool {
	return r.Name != "" && r.ExpiryDate != ""
}
