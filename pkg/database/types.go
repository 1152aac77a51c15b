package database

const (
	// VendorAll is the vendor-name wildcard.
	VendorAll = "default"

	// DeviceTypeAll is the device-type wildcard.
	DeviceTypeAll = "default"

	// DeviceNameDefault is the device-name wildcard inside a vendor record.
	DeviceNameDefault = "default"
)

// Device types reported by OpenCL platforms.
const (
	DeviceTypeCPU         = "CPU"
	DeviceTypeGPU         = "GPU"
	DeviceTypeAccelerator = "accelerator"
)

// Device holds the tuned parameters for one device model, or for every
// otherwise unmatched device when Name is DeviceNameDefault.
type Device struct {
	Name       string     `json:"name" yaml:"name"`
	Parameters Parameters `json:"parameters" yaml:"parameters"`
}

// Vendor groups device records by vendor and device type. Either axis may
// be a wildcard independently of the other.
type Vendor struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Devices []Device `json:"devices" yaml:"devices"`
}

// Entry is one row of a knowledge base: a kernel at a precision with its
// vendor tree.
type Entry struct {
	Kernel    string    `json:"kernel" yaml:"kernel"`
	Precision Precision `json:"precision" yaml:"precision"`
	Vendors   []Vendor  `json:"vendors" yaml:"vendors"`
}

// KnowledgeBase is an ordered list of entries searched as a unit.
//
// Order is significant at every level: a specific record must come before
// the wildcard record that would otherwise shadow it. Lint reports
// violations.
type KnowledgeBase []Entry

// Target is a fully specified lookup key. Vendor is expected to be canonical.
type Target struct {
	Kernel    string    `json:"kernel" yaml:"kernel"`
	Precision Precision `json:"precision" yaml:"precision"`
	Type      string    `json:"type" yaml:"type"`
	Vendor    string    `json:"vendor" yaml:"vendor"`
	Device    string    `json:"device" yaml:"device"`
}

func (v *Vendor) matches(t Target) bool {
	return (v.Name == t.Vendor || v.Name == VendorAll) &&
		(v.Type == t.Type || v.Type == DeviceTypeAll)
}

func (d *Device) matches(t Target) bool {
	return d.Name == t.Device || d.Name == DeviceNameDefault
}

func (e *Entry) matches(t Target) bool {
	return e.Kernel == t.Kernel && e.Precision.Matches(t.Precision)
}
