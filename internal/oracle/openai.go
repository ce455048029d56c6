package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/nominationd/internal/contract"
	"github.com/fyrsmithlabs/nominationd/internal/docx"
)

// Config holds settings for the OpenAI-backed oracle.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// Timeout bounds each completion call; zero means no per-call deadline.
	Timeout time.Duration
}

// LLMOracle implements Oracle against an OpenAI-compatible chat completion
// endpoint via langchaingo.
type LLMOracle struct {
	llm     llms.Model
	timeout time.Duration
	logger  *zap.Logger
}

// NewLLMOracle creates the live oracle client.
func NewLLMOracle(cfg Config, logger *zap.Logger) (*LLMOracle, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return &LLMOracle{llm: llm, timeout: cfg.Timeout, logger: logger}, nil
}

// ResolveArrivalDate sends the serialized table with the date prompt contract
// and validates the response strictly. A response that is not a bare Y/m/d
// date (after sanitization) is a resolution failure, never a guess.
func (o *LLMOracle) ResolveArrivalDate(ctx context.Context, table docx.Table) (contract.CivilDate, error) {
	serialized, err := json.Marshal(table)
	if err != nil {
		return contract.CivilDate{}, fmt.Errorf("serializing table: %w", err)
	}

	raw, err := o.complete(ctx, dateSystemPrompt, fmt.Sprintf(dateUserPromptTemplate, serialized), dateMaxTokens)
	if err != nil {
		return contract.CivilDate{}, fmt.Errorf("date completion: %w", err)
	}

	d, err := ParseDateResponse(raw)
	if err != nil {
		o.logger.Warn("invalid date from oracle", zap.String("response", raw))
		return contract.CivilDate{}, err
	}
	return d, nil
}

// ExtractKeyword sends one clause's full context with the keyword prompt
// contract and sanitizes the response.
func (o *LLMOracle) ExtractKeyword(ctx context.Context, clauseContext string) (string, error) {
	raw, err := o.complete(ctx, keywordSystemPrompt, fmt.Sprintf(keywordUserPromptTemplate, clauseContext), keywordMaxTokens)
	if err != nil {
		return "", fmt.Errorf("keyword completion: %w", err)
	}
	return ParseKeywordResponse(raw), nil
}

// complete issues one chat completion with temperature 0.
func (o *LLMOracle) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := o.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeSystem, system),
			llms.TextParts(schema.ChatMessageTypeHuman, user),
		},
		llms.WithTemperature(0),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from completion service")
	}
	return resp.Choices[0].Content, nil
}

var _ Oracle = (*LLMOracle)(nil)
