// Package domain holds the shared vocabulary of the complaint review
// console: complaints, AI analysis results, response suggestions and the
// per-session workflow state.
package domain

import "time"

// CustomerSegment classifies the complaining customer.
type CustomerSegment string

const (
	SegmentStandard    CustomerSegment = "STANDARD"
	SegmentGold        CustomerSegment = "GOLD"
	SegmentVIPPlatinum CustomerSegment = "VIP_PLATINUM"
)

// Valid reports whether the segment is one of the known values.
func (s CustomerSegment) Valid() bool {
	switch s {
	case SegmentStandard, SegmentGold, SegmentVIPPlatinum:
		return true
	}
	return false
}

// Complaint is the record under review. MaskedText and BackendID are
// populated only after the review backend responds; everything else is
// fixed at session start.
type Complaint struct {
	ID              string          `json:"id"`
	BackendID       int64           `json:"backendId,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
	CustomerName    string          `json:"customerName"`
	CustomerSegment CustomerSegment `json:"customerSegment"`
	OriginalText    string          `json:"originalText"`
	MaskedText      string          `json:"maskedText,omitempty"`
	PIITags         []string        `json:"piiTags,omitempty"`
}

// HasBackendID reports whether the backend has assigned an id to this
// complaint. Approve and reject are guarded on it.
func (c Complaint) HasBackendID() bool {
	return c.BackendID != 0
}
