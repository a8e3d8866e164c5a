package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/a3tai/mcp-citation-auditor/internal/citation"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-5-mini"

// Client implements Extractor on the OpenAI Responses API.
type Client struct {
	client openai.Client
	model  shared.ResponsesModel
}

// NewClient creates a Client. Extra options are passed to the OpenAI SDK.
func NewClient(apiKey, model string, opts ...option.RequestOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{
		client: openai.NewClient(opts...),
		model:  shared.ResponsesModel(model),
	}, nil
}

// ExtractCitations drafts the citation rows of one page. Blank page text
// yields an empty result without calling the model.
func (c *Client) ExtractCitations(ctx context.Context, req PageRequest) (*citation.ExtractionResult, error) {
	if strings.TrimSpace(req.PageText) == "" {
		return &citation.ExtractionResult{Citations: []citation.Entry{}}, nil
	}

	text, err := c.respond(ctx, extractionInstructions(req), extractionInput(req),
		responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema("citation_extraction", extractionSchema()),
		})
	if err != nil {
		return nil, fmt.Errorf("extract citations from page %d: %w", req.PageNumber, err)
	}

	result, err := parseExtraction(text, !req.ValidationSkipped())
	if err != nil {
		return nil, fmt.Errorf("extract citations from page %d: %w", req.PageNumber, err)
	}
	return result, nil
}

// Classify labels a selected snippet with the column it belongs to.
func (c *Client) Classify(ctx context.Context, req ClassifyRequest) (*citation.Classification, error) {
	value := strings.TrimSpace(req.SelectedText)
	if value == "" {
		return nil, fmt.Errorf("selected text cannot be empty")
	}

	text, err := c.respond(ctx, classificationInstructions, classificationInput(req), responses.ResponseTextConfigParam{})
	if err != nil {
		return nil, fmt.Errorf("classify text: %w", err)
	}

	result := citation.Classify(citation.ParseCategory(text), value)
	result.PageNumber = req.PageNumber
	result.ReportName = reportOrDefault(req.ReportName)
	return &result, nil
}

func (c *Client) respond(ctx context.Context, instructions, input string, format responses.ResponseTextConfigParam) (string, error) {
	response, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						responses.ResponseInputContentParamOfInputText(input),
					},
					"user",
				),
			},
		},
		Text: format,
	})
	if err != nil {
		return "", err
	}

	text := response.OutputText()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
