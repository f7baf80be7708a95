package types

// ResizedData represents the inner payload
type ResizedData struct {
	RunID     string `json:"runId"`
	Source    string `json:"source"`
	Output    string `json:"output"`
	Size      int    `json:"size"`
	Optimized bool   `json:"optimized"`
	S3Key     string `json:"s3Key,omitempty"`
	PublicURL string `json:"publicUrl,omitempty"`
}

// ResizedMessage represents the full message envelope
type ResizedMessage struct {
	Pattern string      `json:"pattern"`
	Data    ResizedData `json:"data"`
}

const RESIZED = "resized"
