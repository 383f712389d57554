package types

// FeedbackRecord is the canonical feedback entity written to the store
type FeedbackRecord struct {
	InteractionID         string   `json:"interactionId"`
	Prompt                string   `json:"prompt"`
	Response              string   `json:"response"`
	SourceAttributionURLs []string `json:"source_attribution_urls"`
	SourceAttribution     any      `json:"sourceAttribution"` // Opaque citation blob, stored as received
	AppIdentifier         string   `json:"appIdentifier"`
	Feedback              string   `json:"feedback"`
	Comment               string   `json:"comment"`
	UserID                string   `json:"userId"`
	SubmittedAt           string   `json:"submittedAt"`
}

// Response mirrors the API Gateway proxy response shape returned by the submitter
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// OK reports whether the response carries a stored record
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == 200
}
