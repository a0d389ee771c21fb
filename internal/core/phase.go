package core

// Phase represents a coarse stage of a construction project. Phases gate
// scheduling beyond per-task dependencies: no task of a later phase starts
// while an earlier phase still has ready work anywhere in the plan.
type Phase string

const (
	// PhasePlanning covers design and specification work.
	PhasePlanning Phase = "planning"

	// PhasePermitting covers permit applications and approvals.
	PhasePermitting Phase = "permitting"

	// PhaseFoundation covers site work, footings, and slabs.
	PhaseFoundation Phase = "foundation"

	// PhaseFraming covers the structural framework.
	PhaseFraming Phase = "framing"

	// PhaseRoughIn covers electrical, plumbing, and HVAC rough-in.
	PhaseRoughIn Phase = "rough_in"

	// PhaseInspection covers mid-project inspections.
	PhaseInspection Phase = "inspection"

	// PhaseFinishing covers trim, paint, and final details.
	PhaseFinishing Phase = "finishing"

	// PhaseFinalInspection covers the final approval walkthrough.
	PhaseFinalInspection Phase = "final_inspection"
)

// AllPhases returns the recognized phases in execution order.
func AllPhases() []Phase {
	return []Phase{
		PhasePlanning,
		PhasePermitting,
		PhaseFoundation,
		PhaseFraming,
		PhaseRoughIn,
		PhaseInspection,
		PhaseFinishing,
		PhaseFinalInspection,
	}
}

// PhaseOrder returns the numeric order of a phase (0-indexed).
// Unrecognized phase tags return -1; the scheduler places them in a single
// miscellaneous group after all recognized phases are drained.
func PhaseOrder(p Phase) int {
	switch p {
	case PhasePlanning:
		return 0
	case PhasePermitting:
		return 1
	case PhaseFoundation:
		return 2
	case PhaseFraming:
		return 3
	case PhaseRoughIn:
		return 4
	case PhaseInspection:
		return 5
	case PhaseFinishing:
		return 6
	case PhaseFinalInspection:
		return 7
	default:
		return -1
	}
}

// KnownPhase reports whether p is one of the recognized phases.
func KnownPhase(p Phase) bool {
	return PhaseOrder(p) >= 0
}
