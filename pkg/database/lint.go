package database

import "fmt"

// Finding describes a record that the first-match search can never reach,
// or a record that can never produce a result.
type Finding struct {
	Kernel    string    `json:"kernel" yaml:"kernel"`
	Precision Precision `json:"precision" yaml:"precision"`
	Vendor    string    `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Type      string    `json:"type,omitempty" yaml:"type,omitempty"`
	Device    string    `json:"device,omitempty" yaml:"device,omitempty"`
	Message   string    `json:"message" yaml:"message"`
}

func (f Finding) String() string {
	s := fmt.Sprintf("%s/%s", f.Kernel, f.Precision)
	if f.Vendor != "" || f.Type != "" {
		s += fmt.Sprintf(" vendor %s/%s", f.Vendor, f.Type)
	}
	if f.Device != "" {
		s += fmt.Sprintf(" device %q", f.Device)
	}
	return s + ": " + f.Message
}

// Lint checks the authoring invariant that specific records precede the
// wildcard records that would shadow them. It does not change how Search
// behaves; it only reports.
func Lint(kb KnowledgeBase) []Finding {
	var findings []Finding
	for j := range kb {
		e := &kb[j]
		for i := 0; i < j; i++ {
			if kb[i].Kernel == e.Kernel && kb[i].Precision.Matches(e.Precision) {
				findings = append(findings, Finding{
					Kernel:    e.Kernel,
					Precision: e.Precision,
					Message:   fmt.Sprintf("entry is shadowed by entry %d (precision %s)", i, kb[i].Precision),
				})
				break
			}
		}
		findings = append(findings, lintVendors(e)...)
	}
	return findings
}

func lintVendors(e *Entry) []Finding {
	var findings []Finding
	for j := range e.Vendors {
		v := &e.Vendors[j]
		for i := 0; i < j; i++ {
			prev := &e.Vendors[i]
			if (prev.Name == v.Name || prev.Name == VendorAll) && (prev.Type == v.Type || prev.Type == DeviceTypeAll) {
				findings = append(findings, Finding{
					Kernel:    e.Kernel,
					Precision: e.Precision,
					Vendor:    v.Name,
					Type:      v.Type,
					Message:   fmt.Sprintf("vendor record is shadowed by %s/%s", prev.Name, prev.Type),
				})
				break
			}
		}
		if len(v.Devices) == 0 {
			findings = append(findings, Finding{
				Kernel:    e.Kernel,
				Precision: e.Precision,
				Vendor:    v.Name,
				Type:      v.Type,
				Message:   "vendor record has no devices",
			})
		}
		findings = append(findings, lintDevices(e, v)...)
	}
	return findings
}

func lintDevices(e *Entry, v *Vendor) []Finding {
	var findings []Finding
	for j := range v.Devices {
		d := &v.Devices[j]
		for i := 0; i < j; i++ {
			prev := &v.Devices[i]
			if prev.Name == d.Name || prev.Name == DeviceNameDefault {
				findings = append(findings, Finding{
					Kernel:    e.Kernel,
					Precision: e.Precision,
					Vendor:    v.Name,
					Type:      v.Type,
					Device:    d.Name,
					Message:   fmt.Sprintf("device record is shadowed by %q", prev.Name),
				})
				break
			}
		}
	}
	return findings
}
