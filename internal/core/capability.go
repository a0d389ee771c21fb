package core

import "strings"

// Capability identifies the trade specialty a task requires. Each capability
// maps to exactly one class of worker in the registry.
type Capability string

const (
	CapabilityArchitect   Capability = "architect"
	CapabilityCarpenter   Capability = "carpenter"
	CapabilityElectrician Capability = "electrician"
	CapabilityPlumber     Capability = "plumber"
	CapabilityMason       Capability = "mason"
	CapabilityPainter     Capability = "painter"
	CapabilityHVAC        Capability = "hvac"
	CapabilityRoofer      Capability = "roofer"
	CapabilityPermitting  Capability = "permitting"
)

// AllCapabilities returns every known capability.
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityArchitect,
		CapabilityCarpenter,
		CapabilityElectrician,
		CapabilityPlumber,
		CapabilityMason,
		CapabilityPainter,
		CapabilityHVAC,
		CapabilityRoofer,
		CapabilityPermitting,
	}
}

// NormalizeCapability lowercases and trims a raw capability tag. Plan records
// arrive with mixed casing ("Carpenter", "HVAC"); the registry matches on the
// normalized form. Unknown tags are preserved as-is so the execution
// controller can report CapabilityNotFound with the original spelling.
func NormalizeCapability(raw string) Capability {
	return Capability(strings.ToLower(strings.TrimSpace(raw)))
}
