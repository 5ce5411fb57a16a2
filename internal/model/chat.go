package model

// ChatRequest is the inbound chatbot message.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatReply is the outbound chatbot reply.
type ChatReply struct {
	Text        string        `json:"text"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	ShowButtons bool          `json:"showButtons,omitempty"`
	Products    []ProductCard `json:"products,omitempty"`
}

// SessionResponse carries a freshly minted session identifier.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// FeedbackRequest represents a user action on a shown product (e.g. the
// "Chọn mẫu này" button in the storefront).
type FeedbackRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	ProductID int64  `json:"product_id" binding:"required"`
	Action    string `json:"action" binding:"required"` // click, order, view_details
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// EmbeddingRebuildRequest selects which products get their description
// embeddings recomputed. Empty means all products.
type EmbeddingRebuildRequest struct {
	ProductIDs []int64 `json:"product_ids,omitempty"`
}

// EmbeddingRebuildResponse reports the outcome of a rebuild run.
type EmbeddingRebuildResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
