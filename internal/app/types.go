package app

// LearningItem is one vocabulary recommendation. Items arrive either in the
// structured `learned` list of a chat reply or are recovered from the reply
// text by the normalizer cascade; the history store stamps them on save.
type LearningItem struct {
	Word      string `json:"word"`
	Topic     string `json:"topic"`
	Level     string `json:"level"`
	Hint      string `json:"hint"`
	Timestamp int64  `json:"ts,omitempty"` // unix millis, set on save
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Level     string `json:"level,omitempty"`
	Topic     string `json:"topic,omitempty"`
	Mode      string `json:"mode,omitempty"` // chat|daily
}

type ChatResponse struct {
	Reply          string         `json:"reply"`
	SessionID      string         `json:"session_id,omitempty"`
	CanonicalTopic string         `json:"canonical_topic,omitempty"`
	Learned        []LearningItem `json:"learned,omitempty"`
	Fallback       bool           `json:"fallback,omitempty"`
}

type ResetRequest struct {
	SessionID string `json:"session_id"`
}
