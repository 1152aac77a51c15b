package database

// DeviceInfo is the identity of the device a kernel will run on, as reported
// by the compute platform. All values are opaque strings.
type DeviceInfo interface {
	// Type is the device class, e.g. "CPU" or "GPU".
	Type() string
	// Vendor is the raw platform vendor string, before alias normalization.
	Vendor() string
	// Name is the device model string.
	Name() string
	// Capabilities is the extension string the platform reports.
	Capabilities() string
}

// Identity is a plain DeviceInfo value.
type Identity struct {
	DeviceType       string `json:"type" yaml:"type"`
	DeviceVendor     string `json:"vendor" yaml:"vendor"`
	DeviceName       string `json:"name" yaml:"name"`
	DeviceExtensions string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

var _ DeviceInfo = Identity{}

// NewIdentity is a convenience constructor.
func NewIdentity(deviceType, vendor, name, capabilities string) Identity {
	return Identity{
		DeviceType:       deviceType,
		DeviceVendor:     vendor,
		DeviceName:       name,
		DeviceExtensions: capabilities,
	}
}

// IdentityOf copies any DeviceInfo into an Identity.
func IdentityOf(d DeviceInfo) Identity {
	if id, ok := d.(Identity); ok {
		return id
	}
	return NewIdentity(d.Type(), d.Vendor(), d.Name(), d.Capabilities())
}

func (i Identity) Type() string         { return i.DeviceType }
func (i Identity) Vendor() string       { return i.DeviceVendor }
func (i Identity) Name() string         { return i.DeviceName }
func (i Identity) Capabilities() string { return i.DeviceExtensions }
