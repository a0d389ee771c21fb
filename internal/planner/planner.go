// Package planner generates task plans from a free-form project description.
//
// The engine does not care where a plan comes from: any PlanSource that can
// turn a description into planner output works. The built-in OpenAI source
// asks a chat model to produce a structured plan; the static source replays a
// canned payload, which tests and offline runs use.
package planner

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hugo-lorenzo-mato/foreman/internal/plan"
)

// PlanSource produces raw planner output for a project description. The
// output is untrusted; callers run it through plan.Extract.
type PlanSource interface {
	GeneratePlan(ctx context.Context, description string, params plan.Params) (string, error)
}

// StaticSource replays a fixed payload. Useful for tests and dry runs.
type StaticSource string

func (s StaticSource) GeneratePlan(context.Context, string, plan.Params) (string, error) {
	return string(s), nil
}

const systemPrompt = `You are an expert construction project planning agent with deep knowledge of
building processes, trade coordination, permits, and construction sequencing.

Break the project described by the user into a structured task plan and return
it as JSON, exactly in this shape:

{
  "tasks": [
    {
      "task_id": "1",
      "agent": "architect",
      "description": "Design structure with scaled drawings",
      "dependencies": [],
      "phase": "planning",
      "requirements": "floor plan and elevations showing dimensions",
      "materials": ["drafting tools"]
    }
  ]
}

Rules:
- task_id: sequential numbers as strings ("1", "2", ...).
- agent: one of architect, carpenter, electrician, plumber, mason, painter,
  hvac, roofer, permitting.
- dependencies: task_id strings of tasks that must complete first; the result
  must be a valid DAG with no circular references.
- phase: one of planning, permitting, foundation, framing, rough_in,
  inspection, finishing, final_inspection.
- Planning comes first, permits require completed plans, foundation requires
  permits, structural work requires foundation, rough-in requires structure,
  inspections require completed work, finishing requires passed inspections.
- Keep descriptions specific and actionable, under 200 characters.

Return ONLY the JSON document.`

// Config holds OpenAI planner settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIPlanner generates plans through the OpenAI chat completions API, or
// any compatible endpoint via BaseURL.
type OpenAIPlanner struct {
	client *openai.Client
	model  string
}

// NewOpenAIPlanner creates a planner from config. Model defaults to GPT-4o.
func NewOpenAIPlanner(cfg Config) *OpenAIPlanner {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIPlanner{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

func (p *OpenAIPlanner) GeneratePlan(ctx context.Context, description string, params plan.Params) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(description, params)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generating plan: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generating plan: model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func userPrompt(description string, params plan.Params) string {
	return fmt.Sprintf(
		"Project: %s\n\nDimensions: %dx%d ft, height %d ft. Electrical service: %t. Foundation: %t.",
		description, params.Width, params.Length, params.Height,
		params.HasElectrical, params.HasFoundation)
}
