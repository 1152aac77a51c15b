package database

// Canonical vendor names used by the tables.
const (
	VendorIntel    = "Intel"
	VendorAMD      = "AMD"
	VendorNVIDIA   = "NVIDIA"
	VendorARM      = "ARM"
	VendorQualcomm = "QUALCOMM"
	VendorApple    = "Apple"
)

// VendorAliases maps a raw platform vendor string to a canonical short name.
type VendorAliases map[string]string

// defaultVendorAliases is read-only after package initialization.
var defaultVendorAliases = VendorAliases{
	"Intel(R) Corporation":         VendorIntel,
	"GenuineIntel":                 VendorIntel,
	"Advanced Micro Devices, Inc.": VendorAMD,
	"NVIDIA Corporation":           VendorNVIDIA,
}

// DefaultVendorAliases returns a copy of the built-in alias table.
func DefaultVendorAliases() VendorAliases {
	c := make(VendorAliases, len(defaultVendorAliases))
	for k, v := range defaultVendorAliases {
		c[k] = v
	}
	return c
}

// Normalize returns the canonical name for raw, or raw itself when it has no alias.
func (a VendorAliases) Normalize(raw string) string {
	if canonical, ok := a[raw]; ok {
		return canonical
	}
	return raw
}

// NormalizeVendor applies the built-in alias table.
func NormalizeVendor(raw string) string {
	return defaultVendorAliases.Normalize(raw)
}
