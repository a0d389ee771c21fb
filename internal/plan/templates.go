package plan

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

// Params tunes the parameterized templates. Zero values fall back to the
// defaults from DefaultParams.
type Params struct {
	Width         int
	Length        int
	Height        int
	HasElectrical bool
	HasFoundation bool
}

// DefaultParams returns the standard 10x12 shed with a foundation and no
// electrical service.
func DefaultParams() Params {
	return Params{Width: 10, Length: 12, Height: 8, HasFoundation: true}
}

func (p Params) normalized() Params {
	d := DefaultParams()
	if p.Width <= 0 {
		p.Width = d.Width
	}
	if p.Length <= 0 {
		p.Length = d.Length
	}
	if p.Height <= 0 {
		p.Height = d.Height
	}
	return p
}

var templates = map[string]func(Params) []Record{
	"kitchen_remodel":   kitchenRemodelTasks,
	"bathroom_remodel":  bathroomRemodelTasks,
	"new_construction":  newConstructionTasks,
	"addition":          additionTasks,
	"shed_construction": shedConstructionTasks,
}

// Template returns the record set for a built-in project template.
func Template(name string, params Params) ([]Record, error) {
	build, ok := templates[name]
	if !ok {
		return nil, core.ErrNotFound("template", name)
	}
	return build(params.normalized()), nil
}

// TemplateNames returns the available template names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func kitchenRemodelTasks(Params) []Record {
	return []Record{
		{ID: "1", Capability: "architect", Description: "Design kitchen layout", Phase: "planning"},
		{ID: "2", Capability: "permitting", Description: "Apply for building permit", Dependencies: []string{"1"}, Phase: "permitting"},
		// Kitchen jobs carry a demolition step that has no slot in the
		// standard phase order; it runs in the trailing misc group.
		{ID: "3", Capability: "carpenter", Description: "Remove old cabinets", Dependencies: []string{"2"}, Phase: "demolition"},
		{ID: "4", Capability: "plumber", Description: "Update plumbing rough-in", Dependencies: []string{"3"}, Phase: "rough_in"},
		{ID: "5", Capability: "electrician", Description: "Update electrical rough-in", Dependencies: []string{"3"}, Phase: "rough_in"},
		{ID: "6", Capability: "permitting", Description: "Schedule rough-in inspection", Dependencies: []string{"4", "5"}, Phase: "inspection"},
		{ID: "7", Capability: "carpenter", Description: "Install new cabinets", Dependencies: []string{"6"}, Phase: "finishing"},
		{ID: "8", Capability: "electrician", Description: "Install lighting fixtures", Dependencies: []string{"7"}, Phase: "finishing"},
		{ID: "9", Capability: "plumber", Description: "Install sink and fixtures", Dependencies: []string{"7"}, Phase: "finishing"},
		{ID: "10", Capability: "painter", Description: "Paint walls", Dependencies: []string{"7"}, Phase: "finishing"},
		{ID: "11", Capability: "permitting", Description: "Final inspection", Dependencies: []string{"8", "9", "10"}, Phase: "final_inspection"},
	}
}

func bathroomRemodelTasks(Params) []Record {
	return []Record{
		{ID: "1", Capability: "architect", Description: "Design bathroom layout", Phase: "planning"},
		{ID: "2", Capability: "permitting", Description: "Apply for permits", Dependencies: []string{"1"}, Phase: "permitting"},
		{ID: "3", Capability: "carpenter", Description: "Demolition work", Dependencies: []string{"2"}, Phase: "demolition"},
		{ID: "4", Capability: "plumber", Description: "Rough-in plumbing", Dependencies: []string{"3"}, Phase: "rough_in"},
		{ID: "5", Capability: "electrician", Description: "Rough-in electrical", Dependencies: []string{"3"}, Phase: "rough_in"},
		{ID: "6", Capability: "permitting", Description: "Rough-in inspection", Dependencies: []string{"4", "5"}, Phase: "inspection"},
		{ID: "7", Capability: "carpenter", Description: "Install drywall", Dependencies: []string{"6"}, Phase: "finishing"},
		{ID: "8", Capability: "painter", Description: "Paint and tile work", Dependencies: []string{"7"}, Phase: "finishing"},
		{ID: "9", Capability: "plumber", Description: "Install fixtures", Dependencies: []string{"8"}, Phase: "finishing"},
		{ID: "10", Capability: "electrician", Description: "Install light fixtures", Dependencies: []string{"8"}, Phase: "finishing"},
		{ID: "11", Capability: "permitting", Description: "Final inspection", Dependencies: []string{"9", "10"}, Phase: "final_inspection"},
	}
}

func newConstructionTasks(Params) []Record {
	return []Record{
		{ID: "1", Capability: "architect", Description: "Create architectural plans", Phase: "planning"},
		{ID: "2", Capability: "permitting", Description: "Apply for building permits", Dependencies: []string{"1"}, Phase: "permitting"},
		{ID: "3", Capability: "mason", Description: "Pour foundation", Dependencies: []string{"2"}, Phase: "foundation"},
		{ID: "4", Capability: "carpenter", Description: "Frame walls and roof", Dependencies: []string{"3"}, Phase: "framing"},
		{ID: "5", Capability: "roofer", Description: "Install roof", Dependencies: []string{"4"}, Phase: "framing"},
		{ID: "6", Capability: "electrician", Description: "Electrical rough-in", Dependencies: []string{"4"}, Phase: "rough_in"},
		{ID: "7", Capability: "plumber", Description: "Plumbing rough-in", Dependencies: []string{"4"}, Phase: "rough_in"},
		{ID: "8", Capability: "hvac", Description: "HVAC installation", Dependencies: []string{"4"}, Phase: "rough_in"},
		{ID: "9", Capability: "permitting", Description: "Rough-in inspection", Dependencies: []string{"6", "7", "8"}, Phase: "inspection"},
		{ID: "10", Capability: "carpenter", Description: "Install drywall", Dependencies: []string{"9"}, Phase: "finishing"},
		{ID: "11", Capability: "painter", Description: "Paint interior", Dependencies: []string{"10"}, Phase: "finishing"},
		{ID: "12", Capability: "carpenter", Description: "Install flooring and trim", Dependencies: []string{"11"}, Phase: "finishing"},
		{ID: "13", Capability: "electrician", Description: "Install fixtures", Dependencies: []string{"10"}, Phase: "finishing"},
		{ID: "14", Capability: "plumber", Description: "Install fixtures", Dependencies: []string{"10"}, Phase: "finishing"},
		{ID: "15", Capability: "permitting", Description: "Final inspection", Dependencies: []string{"12", "13", "14"}, Phase: "final_inspection"},
	}
}

func additionTasks(Params) []Record {
	return []Record{
		{ID: "1", Capability: "architect", Description: "Design addition plans", Phase: "planning"},
		{ID: "2", Capability: "permitting", Description: "Apply for permits", Dependencies: []string{"1"}, Phase: "permitting"},
		{ID: "3", Capability: "mason", Description: "Pour foundation", Dependencies: []string{"2"}, Phase: "foundation"},
		{ID: "4", Capability: "carpenter", Description: "Frame addition", Dependencies: []string{"3"}, Phase: "framing"},
		{ID: "5", Capability: "roofer", Description: "Extend roof", Dependencies: []string{"4"}, Phase: "framing"},
		{ID: "6", Capability: "electrician", Description: "Electrical rough-in", Dependencies: []string{"4"}, Phase: "rough_in"},
		{ID: "7", Capability: "plumber", Description: "Plumbing rough-in", Dependencies: []string{"4"}, Phase: "rough_in"},
		{ID: "8", Capability: "hvac", Description: "Extend HVAC", Dependencies: []string{"4"}, Phase: "rough_in"},
		{ID: "9", Capability: "permitting", Description: "Rough-in inspection", Dependencies: []string{"6", "7", "8"}, Phase: "inspection"},
		{ID: "10", Capability: "carpenter", Description: "Drywall and finishing", Dependencies: []string{"9"}, Phase: "finishing"},
		{ID: "11", Capability: "painter", Description: "Paint", Dependencies: []string{"10"}, Phase: "finishing"},
		{ID: "12", Capability: "permitting", Description: "Final inspection", Dependencies: []string{"11"}, Phase: "final_inspection"},
	}
}

// shedConstructionTasks builds the shed plan from dimensions and feature
// flags, so the dependency chain shifts when foundation or electrical work
// is omitted.
func shedConstructionTasks(p Params) []Record {
	var records []Record
	id := 1
	next := func() string {
		s := strconv.Itoa(id)
		id++
		return s
	}

	planningID := next()
	records = append(records, Record{
		ID:           planningID,
		Capability:   "architect",
		Description:  fmt.Sprintf("Design shed plans (%dx%d ft)", p.Width, p.Length),
		Phase:        "planning",
		Requirements: map[string]any{"width": p.Width, "length": p.Length},
		Resources:    []string{"blueprints", "specifications"},
	})

	framingDep := planningID
	if p.HasFoundation {
		foundationID := next()
		records = append(records, Record{
			ID:           foundationID,
			Capability:   "mason",
			Description:  "Pour concrete foundation slab",
			Dependencies: []string{planningID},
			Phase:        "foundation",
			Requirements: map[string]any{"area": p.Width * p.Length},
			Resources:    []string{"concrete", "rebar", "gravel"},
		})
		framingDep = foundationID
	}

	framingID := next()
	records = append(records, Record{
		ID:           framingID,
		Capability:   "carpenter",
		Description:  "Frame walls and install door/window openings",
		Dependencies: []string{framingDep},
		Phase:        "framing",
		Requirements: map[string]any{"wall_count": 4, "door_count": 1, "window_count": 1},
		Resources:    []string{"2x4 lumber", "plywood", "nails", "door frame", "window frame"},
	})

	trussID := next()
	records = append(records, Record{
		ID:           trussID,
		Capability:   "carpenter",
		Description:  "Build and install roof trusses",
		Dependencies: []string{framingID},
		Phase:        "framing",
		Requirements: map[string]any{"span": p.Width},
		Resources:    []string{"2x4 lumber", "truss plates", "plywood sheathing"},
	})

	roofingID := next()
	records = append(records, Record{
		ID:           roofingID,
		Capability:   "roofer",
		Description:  "Install roofing (shingles and underlayment)",
		Dependencies: []string{trussID},
		Phase:        "rough_in",
		Requirements: map[string]any{"area": float64(p.Width*p.Length) * 1.3},
		Resources:    []string{"asphalt shingles", "roofing felt", "drip edge", "nails"},
	})

	sidingDeps := []string{roofingID}
	if p.HasElectrical {
		electricalID := next()
		records = append(records, Record{
			ID:           electricalID,
			Capability:   "electrician",
			Description:  "Install electrical wiring, outlet, and light fixture",
			Dependencies: []string{framingID},
			Phase:        "rough_in",
			Requirements: map[string]any{"outlets": 1, "lights": 1},
			Resources:    []string{"electrical wire", "outlet", "light fixture", "breaker"},
		})
		sidingDeps = append(sidingDeps, electricalID)
	}

	sidingID := next()
	records = append(records, Record{
		ID:           sidingID,
		Capability:   "carpenter",
		Description:  "Install exterior siding",
		Dependencies: sidingDeps,
		Phase:        "finishing",
		Requirements: map[string]any{"area": (p.Width + p.Length) * 2 * p.Height},
		Resources:    []string{"siding panels", "trim", "corner boards", "nails"},
	})

	doorsID := next()
	records = append(records, Record{
		ID:           doorsID,
		Capability:   "carpenter",
		Description:  "Install door and window",
		Dependencies: []string{sidingID},
		Phase:        "finishing",
		Requirements: map[string]any{"door_count": 1, "window_count": 1},
		Resources:    []string{"entry door", "window", "hinges", "hardware"},
	})

	paintingID := next()
	records = append(records, Record{
		ID:           paintingID,
		Capability:   "painter",
		Description:  "Paint exterior finish",
		Dependencies: []string{doorsID},
		Phase:        "finishing",
		Requirements: map[string]any{"coats": 2},
		Resources:    []string{"exterior paint", "primer", "brushes", "rollers"},
	})

	records = append(records, Record{
		ID:           next(),
		Capability:   "carpenter",
		Description:  "Final walkthrough and cleanup",
		Dependencies: []string{paintingID},
		Phase:        "final_inspection",
		Requirements: map[string]any{
			"checklist": []string{"doors close properly", "roof is sealed", "paint is dry"},
		},
	})

	return records
}
