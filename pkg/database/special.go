package database

import "strings"

// AppleCPUExtension is the capability marker exposed by Apple's OpenCL CPU driver.
const AppleCPUExtension = "cl_APPLE_SetMemObjectDestructor"

// SourceAppleCPUFallback names the knowledge base selected by AppleCPUFallback.
const SourceAppleCPUFallback = "apple-cpu-fallback"

// SpecialCase decides whether a device needs a knowledge base that takes
// priority over both the overlay and the built-in tables. It returns the
// name of that knowledge base for reporting.
type SpecialCase func(dev DeviceInfo) (name string, kb KnowledgeBase, ok bool)

// AppleCPUFallback returns a SpecialCase selecting kb for CPU devices whose
// capability string contains AppleCPUExtension. A missing marker never
// fails, the policy just does not apply.
func AppleCPUFallback(kb KnowledgeBase) SpecialCase {
	return func(dev DeviceInfo) (string, KnowledgeBase, bool) {
		if dev.Type() != DeviceTypeCPU {
			return "", nil, false
		}
		if !strings.Contains(dev.Capabilities(), AppleCPUExtension) {
			return "", nil, false
		}
		return SourceAppleCPUFallback, kb, true
	}
}
