package models

// Content node types as returned by the Limitless API.
const (
	NodeHeading1   = "heading1"
	NodeHeading2   = "heading2"
	NodeBlockquote = "blockquote"
)

// Lifelog represents one journal entry retrieved from the Limitless API
type Lifelog struct {
	ID       string        `json:"id"`
	Title    string        `json:"title,omitempty"`
	Markdown string        `json:"markdown,omitempty"`
	Contents []ContentNode `json:"contents,omitempty"`
}

// ContentNode is a typed fragment within a lifelog's content tree.
// Order within the Contents slice defines document order.
type ContentNode struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	SpeakerName string `json:"speakerName,omitempty"`
	StartTime   string `json:"startTime,omitempty"` // RFC3339, may be absent
}

// LifelogsResponse is the envelope returned by GET /v1/lifelogs
type LifelogsResponse struct {
	Data LifelogsData `json:"data"`
	Meta LifelogsMeta `json:"meta"`
}

// LifelogsData holds the page of lifelogs
type LifelogsData struct {
	Lifelogs []Lifelog `json:"lifelogs"`
}

// LifelogsMeta carries pagination metadata
type LifelogsMeta struct {
	Lifelogs LifelogsPageInfo `json:"lifelogs"`
}

// LifelogsPageInfo holds the continuation cursor; empty means the last page
type LifelogsPageInfo struct {
	NextCursor string `json:"nextCursor,omitempty"`
}
