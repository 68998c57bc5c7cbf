package dto

// Sentinel values used by the extraction pipeline. UNSURE comes back from the
// model for fields it could not determine; NOT_FOUND marks product names that
// matched nothing in the inventory.
const (
	SentinelUnsure   = "UNSURE"
	SentinelNotFound = "NOT_FOUND"
)

// AnalyzeRequest carries one free-text transcribed utterance.
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required"`
}

// ExtractedIntent is one structured inventory operation derived from the
// transcript. Quantity stays a string because it may carry the UNSURE
// sentinel instead of digits. Ephemeral — never persisted.
type ExtractedIntent struct {
	Operation           string `json:"operation"`             // USE | ADD | UNSURE
	PossibleProductName string `json:"possible_product_name"` // name or UNSURE
	Quantity            string `json:"quantity"`              // digits or UNSURE
	Notes               string `json:"notes"`                 // non-empty only when something is UNSURE
	PossibleProductID   string `json:"possible_product_id"`   // resolved item id or NOT_FOUND
}

// AnalysisResponse is the result of POST /v1/analysis.
type AnalysisResponse struct {
	Items []ExtractedIntent `json:"items"`
}
