package database

// Search looks up the parameters for t in a single knowledge base.
//
// Each level is a linear scan that commits to its first match:
//
//  1. the first entry whose kernel equals t.Kernel and whose precision
//     equals t.Precision or is PrecisionAny;
//  2. within it, the first vendor record whose name and type each equal
//     the target value or the wildcard;
//  3. within it, the first device record named t.Device or "default".
//
// A committed branch that fails deeper down ends the search: later entries
// or vendor records are never tried. The returned set points into kb and
// must not be modified.
func Search(kb KnowledgeBase, t Target) (*Parameters, bool) {
	entry := findEntry(kb, t)
	if entry == nil {
		return nil, false
	}
	vendor := findVendor(entry.Vendors, t)
	if vendor == nil {
		return nil, false
	}
	device := findDevice(vendor.Devices, t)
	if device == nil {
		return nil, false
	}
	return &device.Parameters, true
}

func findEntry(kb KnowledgeBase, t Target) *Entry {
	for i := range kb {
		if kb[i].matches(t) {
			return &kb[i]
		}
	}
	return nil
}

func findVendor(vendors []Vendor, t Target) *Vendor {
	for i := range vendors {
		if vendors[i].matches(t) {
			return &vendors[i]
		}
	}
	return nil
}

func findDevice(devices []Device, t Target) *Device {
	for i := range devices {
		if devices[i].matches(t) {
			return &devices[i]
		}
	}
	return nil
}
