package worker

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

// TradeWorker is the built-in simulated crew for one trade. It walks a fixed
// sequence of sub-actions, reporting each through the trace hook, and returns
// a summary of the work performed. Real deployments replace these with
// workers that drive actual tools.
type TradeWorker struct {
	capability core.Capability
	steps      []string
}

// NewTradeWorker creates a simulated worker for a capability.
func NewTradeWorker(capability core.Capability, steps ...string) *TradeWorker {
	return &TradeWorker{capability: capability, steps: steps}
}

func (w *TradeWorker) Capability() core.Capability {
	return w.capability
}

func (w *TradeWorker) Invoke(ctx context.Context, req Request, trace Trace) (*Result, error) {
	performed := make([]string, 0, len(w.steps))
	for _, step := range w.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		params := map[string]any{"task": string(req.TaskID)}
		if len(req.Resources) > 0 {
			params["resources"] = fmt.Sprintf("%v", req.Resources)
		}
		if trace != nil {
			if err := trace(step, params); err != nil {
				return nil, err
			}
		}
		performed = append(performed, step)
	}

	return &Result{
		Summary: fmt.Sprintf("%s completed: %s", w.capability, req.Description),
		Output: map[string]any{
			"actions":   performed,
			"resources": req.Resources,
		},
	}, nil
}

// AllTrades returns a simulated worker for every built-in capability. The
// sub-action sequences mirror the tools each crew would reach for on a real
// job.
func AllTrades() []Worker {
	return []Worker{
		NewTradeWorker(core.CapabilityArchitect,
			"create_floor_plan", "create_structural_plan", "specify_materials"),
		NewTradeWorker(core.CapabilityCarpenter,
			"check_materials", "frame_walls", "hang_drywall", "install_doors"),
		NewTradeWorker(core.CapabilityElectrician,
			"run_new_circuits", "wire_outlets_switches", "install_lighting_fixtures"),
		NewTradeWorker(core.CapabilityPlumber,
			"repair_pipes", "install_sink", "install_water_heater"),
		NewTradeWorker(core.CapabilityMason,
			"check_materials", "pour_concrete_foundation", "lay_brick_wall"),
		NewTradeWorker(core.CapabilityPainter,
			"prime_surfaces", "paint_interior_walls", "paint_exterior"),
		NewTradeWorker(core.CapabilityHVAC,
			"install_ductwork", "install_heating_system", "install_thermostat"),
		NewTradeWorker(core.CapabilityRoofer,
			"install_underlayment", "install_shingles", "install_flashing"),
		NewTradeWorker(core.CapabilityPermitting,
			"apply_for_permit", "schedule_inspection"),
	}
}
