// Package database resolves kernel tuning parameters for a device.
//
// # Overview
//
// A tuning parameter set is an ordered list of NAME=VALUE integers that is
// prepended to kernel source as "#define" lines. Parameter sets live in
// knowledge bases keyed by kernel, precision, vendor, device type and
// device name. Resolution picks the best-known set for one device, falling
// back through wildcards when the exact device was never tuned.
//
// # Core Types
//
// KnowledgeBase: ordered tuning entries, searched top to bottom
//
//	type Entry struct {
//	    Kernel    string    // Xgemm, Xaxpy, Copy, ...
//	    Precision Precision // half, single, double, complex-single, complex-double, any
//	    Vendors   []Vendor  // Name and Type may each be "default"
//	}
//
//	type Vendor struct {
//	    Name    string   // canonical vendor (NVIDIA, AMD, Intel) or "default"
//	    Type    string   // CPU, GPU, accelerator or "default"
//	    Devices []Device // Name may be "default"
//	}
//
// DeviceInfo: the device as the compute platform reports it. Identity is
// the plain value implementation.
//
// Database: one resolution, holding the Target searched for, the device
// Identity, the Source knowledge base and a private copy of the parameters.
//
// # Search
//
// Search walks a single knowledge base in three levels and commits to the
// first match at each one:
//
//  1. the first entry for the kernel whose precision equals the request or is "any"
//  2. within it, the first vendor record whose name and type each match or are "default"
//  3. within it, the first device record whose name matches or is "default"
//
// A miss below a committed level is a miss for the whole knowledge base;
// later entries and vendor records are never tried. Specific records must
// therefore precede the wildcard that would shadow them. Lint reports
// records that can never be reached.
//
// # Candidate Order
//
// Builder.Build normalizes the raw vendor string once (VendorAliases), then
// searches knowledge bases in this order and stops at the first hit:
//
//  1. special cases, such as the Apple CPU fallback for CPUs that report
//     cl_APPLE_SetMemObjectDestructor
//  2. the caller's overlay
//  3. the built-in database embedded in the binary
//
// A hit through a wildcard still wins over later knowledge bases. When no
// knowledge base matches, the error wraps ErrDatabaseExhausted with code
// NOT_FOUND and names the device, kernel and precision.
//
// # Usage
//
//	dev := database.NewIdentity("GPU", "NVIDIA Corporation", "Tesla V100", "cl_khr_fp64")
//	db, err := database.New(ctx, dev, "Xgemm", database.PrecisionSingle, nil)
//	if errors.Is(err, database.ErrDatabaseExhausted) {
//	    // no tuning data: add an overlay entry for this device
//	}
//	source := db.Defines() + kernelSource
//
// CachedBuilder memoizes resolutions without an overlay in a bounded LRU
// cache, and BuildRoutine resolves every kernel of a BLAS routine at once.
// Handler serves both over HTTP.
package database
