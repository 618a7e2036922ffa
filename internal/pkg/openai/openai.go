package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"finqa/internal/config"
	"finqa/internal/logging"
)

var (
	// ErrMissingAPIKey is returned when no OpenAI or Azure OpenAI key was configured.
	ErrMissingAPIKey = config.ErrMissingAPIKey
	// ErrEmptyResponse is returned when the model replied with blank text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// Client is a thin wrapper around the OpenAI responses API implementing Completer.
type Client struct {
	client *openai.Client
	model  shared.ResponsesModel
	logger *slog.Logger
}

// NewClient builds a Client from the loaded configuration. Extra request
// options are appended last so callers can override transport settings.
func NewClient(cfg *config.Config, opts ...option.RequestOption) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	var clientOpts []option.RequestOption
	model := cfg.Model

	switch {
	case cfg.AzureEndpoint != "":
		if cfg.AzureAPIKey == "" {
			return nil, ErrMissingAPIKey
		}
		clientOpts = append(clientOpts,
			azure.WithEndpoint(cfg.AzureEndpoint, cfg.AzureAPIVersion),
			azure.WithAPIKey(cfg.AzureAPIKey),
		)
		if cfg.AzureDeployment != "" {
			model = cfg.AzureDeployment
		}
	case cfg.OpenAIAPIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.OpenAIAPIKey))
		if cfg.OpenAIBaseURL != "" {
			clientOpts = append(clientOpts, option.WithBaseURL(cfg.OpenAIBaseURL))
		}
	default:
		return nil, ErrMissingAPIKey
	}

	if cfg.MaxRetries >= 0 {
		clientOpts = append(clientOpts, option.WithMaxRetries(cfg.MaxRetries))
	}
	clientOpts = append(clientOpts, opts...)

	client := openai.NewClient(clientOpts...)

	logger := logging.New("openai")
	logger.Info("openai client initialized", "model", model, "azure", cfg.AzureEndpoint != "")

	return &Client{client: &client, model: shared.ResponsesModel(model), logger: logger}, nil
}

// Model returns the model or deployment name requests are sent to.
func (c *Client) Model() string {
	return string(c.model)
}

// Complete sends messages to the responses API and returns the trimmed output text.
func (c *Client) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("openai client is not initialized")
	}
	if len(messages) == 0 {
		return "", errors.New("no messages to send")
	}

	input := make(responses.ResponseInputParam, 0, len(messages))
	for _, m := range messages {
		input = append(input, responses.ResponseInputItemParamOfMessage(m.Content, inputRole(m.Role)))
	}

	params := responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: input,
		},
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.JSONMode {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
		}
	}

	c.logger.Debug("sending request", "messages", len(messages), "max_tokens", opts.MaxTokens, "json", opts.JSONMode)

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("call OpenAI: %w", err)
	}

	output := strings.TrimSpace(resp.OutputText())
	if output == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("received response", "chars", len(output))
	return output, nil
}

func inputRole(role Role) responses.EasyInputMessageRole {
	switch role {
	case RoleSystem:
		return responses.EasyInputMessageRoleSystem
	case RoleAssistant:
		return responses.EasyInputMessageRoleAssistant
	default:
		return responses.EasyInputMessageRoleUser
	}
}
