package llm

import (
	"context"
	"fmt"
	"sync"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"frontdesk/pkg/api"
)

// OpenAIEngine adapts the OpenAI Assistants API (beta threads/runs) to the
// Engine interface. The assistant itself is created lazily on the first run
// and reused for the process lifetime; tool specs are static after start.
type OpenAIEngine struct {
	client       openai.Client
	model        string
	name         string
	instructions string

	mu          sync.Mutex
	assistantID string
}

// OpenAIConfig carries the adapter settings.
type OpenAIConfig struct {
	APIKey       string
	Model        string
	BaseURL      string
	Name         string
	Instructions string
}

// NewOpenAIEngine creates an Assistants-backed engine adapter.
func NewOpenAIEngine(cfg OpenAIConfig) (*OpenAIEngine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai engine requires an api key")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIEngine{
		client:       openai.NewClient(opts...),
		model:        cfg.Model,
		name:         cfg.Name,
		instructions: cfg.Instructions,
	}, nil
}

func (e *OpenAIEngine) CreateThread(ctx context.Context) (string, error) {
	thread, err := e.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return thread.ID, nil
}

func (e *OpenAIEngine) AddUserMessage(ctx context.Context, threadID, text string) error {
	_, err := e.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}

// ensureAssistant creates the remote assistant with the advertised tools on
// first use.
func (e *OpenAIEngine) ensureAssistant(ctx context.Context, tools []api.ToolSpec) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.assistantID != "" {
		return e.assistantID, nil
	}

	assistant, err := e.client.Beta.Assistants.New(ctx, openai.BetaAssistantNewParams{
		Model:        shared.ChatModel(e.model),
		Name:         openai.String(e.name),
		Instructions: openai.String(e.instructions),
		Tools:        convertToolSpecs(tools),
	})
	if err != nil {
		return "", fmt.Errorf("create assistant: %w", err)
	}

	e.assistantID = assistant.ID
	return e.assistantID, nil
}

func (e *OpenAIEngine) CreateRun(ctx context.Context, threadID string, tools []api.ToolSpec) (string, error) {
	assistantID, err := e.ensureAssistant(ctx, tools)
	if err != nil {
		return "", err
	}

	run, err := e.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: assistantID,
	})
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return run.ID, nil
}

func (e *OpenAIEngine) RetrieveRun(ctx context.Context, threadID, runID string) (*RunState, error) {
	run, err := e.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return nil, fmt.Errorf("retrieve run: %w", err)
	}

	state := &RunState{Status: RunStatus(run.Status)}

	if run.Status == openai.RunStatusRequiresAction {
		for _, tc := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
			state.PendingCalls = append(state.PendingCalls, ToolCallRequest{
				CallID:    tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}

	return state, nil
}

func (e *OpenAIEngine) SubmitToolResults(ctx context.Context, threadID, runID string, results []ToolCallResult) error {
	outputs := make([]openai.BetaThreadRunSubmitToolOutputsParamsToolOutput, 0, len(results))
	for _, res := range results {
		outputs = append(outputs, openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(res.CallID),
			Output:     openai.String(res.Output),
		})
	}

	_, err := e.client.Beta.Threads.Runs.SubmitToolOutputs(ctx, threadID, runID, openai.BetaThreadRunSubmitToolOutputsParams{
		ToolOutputs: outputs,
	})
	if err != nil {
		return fmt.Errorf("submit tool outputs: %w", err)
	}
	return nil
}

func (e *OpenAIEngine) LatestAssistantMessage(ctx context.Context, threadID string) (string, error) {
	page, err := e.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderDesc,
		Limit: openai.Int(10),
	})
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}

	for _, msg := range page.Data {
		if msg.Role != openai.MessageRoleAssistant {
			continue
		}
		for _, block := range msg.Content {
			if block.Type == "text" {
				return block.Text.Value, nil
			}
		}
	}
	return "", nil
}

// convertToolSpecs renders the registry's specs into the Assistants
// function-tool parameter shape.
func convertToolSpecs(tools []api.ToolSpec) []openai.AssistantToolUnionParam {
	out := make([]openai.AssistantToolUnionParam, 0, len(tools))
	for _, spec := range tools {
		props := make(map[string]any, len(spec.Properties))
		for name, p := range spec.Properties {
			props[name] = map[string]any{
				"type":        p.Type,
				"description": p.Description,
			}
		}
		params := map[string]any{
			"type":       "object",
			"properties": props,
		}
		if len(spec.Required) > 0 {
			params["required"] = spec.Required
		}

		out = append(out, openai.AssistantToolUnionParam{
			OfFunction: &openai.FunctionToolParam{
				Function: shared.FunctionDefinitionParam{
					Name:        spec.Name,
					Description: openai.String(spec.Description),
					Parameters:  shared.FunctionParameters(params),
				},
			},
		})
	}
	return out
}
