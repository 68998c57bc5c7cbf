package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/VarunShelke/accessible-med-tracker/internal/dto"
	"github.com/VarunShelke/accessible-med-tracker/internal/repository"

	"github.com/rs/zerolog/log"
)

// Completer is the outbound generative-model call. infra.LLMClient implements
// it; tests substitute a scripted stub.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnalysisService turns one transcribed utterance into structured inventory
// intents and resolves the extracted product names against the store.
type AnalysisService interface {
	Analyze(ctx context.Context, text string) (*dto.AnalysisResponse, error)
}

const (
	maxExtractionAttempts = 3
	maxBackoff            = 10 * time.Second
)

type analysisService struct {
	llm  Completer
	repo repository.InventoryRepository
	// sleep is swapped out by tests so the backoff path runs instantly.
	sleep func(time.Duration)
}

func NewAnalysisService(llm Completer, repo repository.InventoryRepository) AnalysisService {
	return &analysisService{llm: llm, repo: repo, sleep: time.Sleep}
}

// ── Prompt ───────────────────────────────────────────────────────────────────

const extractionPromptTemplate = `
You are an expert AI assistant that analyzes transcribed text to determine database operations and extract product information.
The transcribed text is enclosed in ` + "`<text>`" + `. Your task is to return a JSON response with a single field "items" containing an array of objects.

<text>
%s
</text>

Analyze the text and identify ALL medications or products mentioned. For each product found, determine:

1. "operation": Which operation the user wants to perform (USE, ADD)
   - ADD: Adding new items, creating records, inserting data
   - USE: Updating usage of existing items, updating records, updating data

2. "possible_product_name": Extract the medication or product name

3. "quantity": Extract any quantity, amount, or number mentioned. Always use numeric values (convert words like "one", "two" to "1", "2", etc.)

4. "notes": Provide user-friendly error message when any field is UNSURE, otherwise empty string

If you are unsure about any field, return "UNSURE" as the value and explain the issue in "notes".

Expected JSON structure:
{
    "items": [
        {
            "operation": "USE|ADD|UNSURE",
            "possible_product_name": "product_name_or_UNSURE",
            "quantity": "quantity_or_UNSURE",
            "notes": "error_message_or_empty_string"
        }
    ]
}

CRITICAL RULES:
- Return ONLY valid JSON, no other text or explanations
- Always wrap results in an "items" array, even for a single product
- Create separate objects for each distinct product mentioned
- If multiple products share the same quantity (e.g., "I used one Tylenol and Advil"), apply that quantity to each product
- Convert word numbers to digits (one→1, two→2, etc.)

Example:
Input: "I used one Tylenol and Advil"
Output:
{
    "items": [
        {
            "operation": "USE",
            "possible_product_name": "Tylenol",
            "quantity": "1",
            "notes": ""
        },
        {
            "operation": "USE",
            "possible_product_name": "Advil",
            "quantity": "1",
            "notes": ""
        }
    ]
}
`

func buildExtractionPrompt(text string) string {
	return fmt.Sprintf(extractionPromptTemplate, text)
}

// ── Analyze ──────────────────────────────────────────────────────────────────

func (s *analysisService) Analyze(ctx context.Context, text string) (*dto.AnalysisResponse, error) {
	intents, err := s.extractWithRetry(ctx, text)
	if err != nil {
		return nil, err
	}

	for i := range intents {
		intents[i].PossibleProductID = s.resolveProduct(ctx, intents[i].PossibleProductName)
	}

	return &dto.AnalysisResponse{Items: intents}, nil
}

// extractWithRetry drives the model up to maxExtractionAttempts times.
// Between attempts it backs off exponentially with jitter; only failures
// wrapped as RetryableError are retried.
func (s *analysisService) extractWithRetry(ctx context.Context, text string) ([]dto.ExtractedIntent, error) {
	prompt := buildExtractionPrompt(text)

	var lastErr error
	for attempt := 1; attempt <= maxExtractionAttempts; attempt++ {
		intents, err := s.attemptExtraction(ctx, prompt)
		if err == nil {
			return intents, nil
		}

		var re *RetryableError
		if !errors.As(err, &re) {
			return nil, err
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("analysis: extraction attempt failed")

		if attempt < maxExtractionAttempts {
			delay := extractionBackoff(attempt)
			log.Info().Dur("delay", delay).Msg("analysis: retrying extraction")
			s.sleep(delay)
		}
	}

	return nil, fmt.Errorf("analysis: no valid model response after %d attempts: %w", maxExtractionAttempts, lastErr)
}

func (s *analysisService) attemptExtraction(ctx context.Context, prompt string) ([]dto.ExtractedIntent, error) {
	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, retryable(err)
	}

	intents, err := parseExtraction(raw)
	if err != nil {
		return nil, retryable(err)
	}
	return intents, nil
}

// extractionBackoff is min(2^attempt + jitter[0,1), 10) seconds.
func extractionBackoff(attempt int) time.Duration {
	seconds := math.Pow(2, float64(attempt)) + rand.Float64()
	d := time.Duration(seconds * float64(time.Second))
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// ── Response parsing ─────────────────────────────────────────────────────────

var requiredIntentKeys = []string{"operation", "possible_product_name", "quantity", "notes"}

// parseExtraction locates the first structurally valid JSON object in the raw
// model output (which may be wrapped in prose) and validates the items array.
func parseExtraction(raw string) ([]dto.ExtractedIntent, error) {
	payload, ok := firstJSONObject(raw)
	if !ok {
		return nil, errors.New("no parsable JSON object in model response")
	}

	itemsRaw, ok := payload["items"]
	if !ok {
		return nil, errors.New("model response missing items array")
	}

	var rawItems []map[string]json.RawMessage
	if err := json.Unmarshal(itemsRaw, &rawItems); err != nil {
		return nil, fmt.Errorf("items is not an array of objects: %w", err)
	}
	if len(rawItems) == 0 {
		return nil, errors.New("model response has empty items array")
	}

	intents := make([]dto.ExtractedIntent, 0, len(rawItems))
	for _, item := range rawItems {
		fields := make(map[string]string, len(requiredIntentKeys))
		for _, key := range requiredIntentKeys {
			value, ok := item[key]
			if !ok {
				return nil, fmt.Errorf("item missing required field %q", key)
			}
			str, ok := coerceString(value)
			if !ok {
				return nil, fmt.Errorf("item field %q is neither string nor number", key)
			}
			fields[key] = str
		}
		intents = append(intents, dto.ExtractedIntent{
			Operation:           fields["operation"],
			PossibleProductName: fields["possible_product_name"],
			Quantity:            fields["quantity"],
			Notes:               fields["notes"],
		})
	}
	return intents, nil
}

// firstJSONObject scans raw text for balanced-brace candidates and returns
// the first one that unmarshals as an object.
func firstJSONObject(raw string) (map[string]json.RawMessage, bool) {
	for _, candidate := range scanJSONObjects(raw) {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal([]byte(candidate), &payload); err == nil {
			return payload, true
		}
	}
	return nil, false
}

// scanJSONObjects returns every top-level {...} span in s, tracking brace
// depth and skipping braces inside string literals.
func scanJSONObjects(s string) []string {
	var candidates []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					candidates = append(candidates, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return candidates
}

// coerceString accepts both "3" and 3 — the model does not reliably quote
// quantities despite the prompt.
func coerceString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err == nil {
		return n.String(), true
	}
	return "", false
}

// ── Product resolution ───────────────────────────────────────────────────────

// resolveProduct maps a free-text product name to an inventory id via
// case-insensitive substring containment. First match in store iteration
// order wins — deliberately no ranking. Store failures degrade to NOT_FOUND
// so a flaky store never blocks returning the extracted intents.
func (s *analysisService) resolveProduct(ctx context.Context, name string) string {
	if name == "" || name == dto.SentinelUnsure {
		return dto.SentinelNotFound
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("analysis: inventory search failed")
		return dto.SentinelNotFound
	}

	needle := strings.ToLower(name)
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].ItemName), needle) {
			return items[i].ID.String()
		}
	}
	return dto.SentinelNotFound
}
