package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VarunShelke/accessible-med-tracker/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// Extraction is biased toward deterministic, literal output: low temperature,
// with a token ceiling generous enough for multi-item utterances.
const (
	llmTemperature = 0.1
	llmMaxTokens   = 2500
)

// LLMClient talks to an OpenAI-compatible chat-completion endpoint through
// the circuit breaker.
type LLMClient struct {
	client *openai.Client
	model  string
	cb     *CircuitBreaker
}

func NewLLMClient(cfg *config.Config, cb *CircuitBreaker) *LLMClient {
	clientConfig := openai.DefaultConfig(cfg.LLMAPIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.LLMEndpoint, "/")

	return &LLMClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.LLMModel,
		cb:     cb,
	}
}

// Complete sends one user prompt and returns the raw completion text.
// Fast-fails with ErrCircuitOpen while the endpoint is considered down.
func (c *LLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	var content string

	err := c.cb.Execute(func() error {
		start := time.Now()
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: llmTemperature,
			MaxTokens:   llmMaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("llm: completion failed")
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("llm: no choices in response")
		}

		content = resp.Choices[0].Message.Content
		log.Debug().
			Int("prompt_tokens", resp.Usage.PromptTokens).
			Int("completion_tokens", resp.Usage.CompletionTokens).
			Dur("elapsed", time.Since(start)).
			Msg("llm: completion ok")
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// BreakerState exposes the current breaker state for the health endpoint.
func (c *LLMClient) BreakerState() CBState { return c.cb.State() }
