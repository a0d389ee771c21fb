package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/hugo-lorenzo-mato/foreman/internal/adapters/journal"
	"github.com/hugo-lorenzo-mato/foreman/internal/engine"
	"github.com/hugo-lorenzo-mato/foreman/internal/guard"
	"github.com/hugo-lorenzo-mato/foreman/internal/planner"
	"github.com/hugo-lorenzo-mato/foreman/internal/worker"
)

// app bundles everything a run needs plus the adapters to shut down after.
type app struct {
	engine  *engine.Engine
	journal *journal.SQLiteJournal
}

func (a *app) close() {
	a.engine.Bus().Close()
	if a.journal != nil {
		_ = a.journal.Close()
	}
}

// buildApp wires an engine from the loaded configuration: the full trade
// registry, the optional LLM plan source, and the optional event journal.
func buildApp() (*app, error) {
	timeout, err := cfg.Engine.ParsedTaskTimeout()
	if err != nil {
		return nil, fmt.Errorf("invalid task_timeout: %w", err)
	}

	engineCfg := engine.DefaultConfig()
	engineCfg.TaskTimeout = timeout
	engineCfg.MaxIterations = cfg.Engine.MaxIterations
	engineCfg.Concurrency = cfg.Engine.Concurrency
	engineCfg.FailFast = cfg.Engine.FailFast
	engineCfg.Guard = guard.Limits{
		MaxTotalCalls:     cfg.Guard.MaxTotalCalls,
		MaxIdenticalCalls: cfg.Guard.MaxIdenticalCalls,
		RepeatWindow:      cfg.Guard.RepeatWindow,
	}

	registry := worker.NewRegistry(worker.AllTrades()...)

	opts := []engine.Option{engine.WithLogger(log)}
	if cfg.Planner.Enabled {
		opts = append(opts, engine.WithPlanSource(planner.NewOpenAIPlanner(planner.Config{
			APIKey:  cfg.Planner.APIKey,
			Model:   cfg.Planner.Model,
			BaseURL: cfg.Planner.BaseURL,
		})))
	}

	a := &app{engine: engine.NewEngine(engineCfg, registry, opts...)}

	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		j.Attach(a.engine.Bus())
		a.journal = j
	}
	return a, nil
}

// renderMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer cannot be built.
func renderMarkdown(markdown string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return markdown
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

func printMarkdown(markdown string) {
	fmt.Fprint(os.Stdout, renderMarkdown(markdown))
}
