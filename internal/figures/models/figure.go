package models

// ============================================================
// Stored figure
// ============================================================

// Figure is a persisted render request. Only the canonical text and the
// summaries are kept; geometry is re-solved from Normalized on demand.
type Figure struct {
	ID         string          `json:"id"`
	Lines      []string        `json:"lines"`
	Normalized []string        `json:"normalized"`
	Summaries  []RenderSummary `json:"summaries"`
	CreatedAt  string          `json:"created_at"`
}
