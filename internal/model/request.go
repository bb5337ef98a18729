package model

import "time"

// RequestStatus is the classification bucket of a verification request
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusVerified  RequestStatus = "verified"
	StatusFlagged   RequestStatus = "flagged"
	StatusDuplicate RequestStatus = "duplicate"
)

// Valid reports whether s is one of the known statuses
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusFlagged, StatusDuplicate:
		return true
	}
	return false
}

// VerificationRequest is a submitted emergency report and its triage result
type VerificationRequest struct {
	ID              string        `json:"id" bson:"_id"`
	Seq             int64         `json:"-" bson:"seq"` // insertion order
	Content         string        `json:"content" bson:"content"`
	Location        string        `json:"location" bson:"location"`
	Timestamp       time.Time     `json:"timestamp" bson:"timestamp"`
	UrgencyScore    int           `json:"urgencyScore" bson:"urgencyScore"`
	DuplicateScore  int           `json:"duplicateScore" bson:"duplicateScore"`
	SpamScore       int           `json:"spamScore" bson:"spamScore"`
	Confidence      int           `json:"confidence" bson:"confidence"` // advisory only
	Status          RequestStatus `json:"status" bson:"status"`
	SimilarRequests []string      `json:"similarRequests" bson:"similarRequests"`
	AIAnalysis      string        `json:"aiAnalysis" bson:"aiAnalysis"`
}

// Result returns the scoring part of the request
func (r *VerificationRequest) Result() VerificationResult {
	return VerificationResult{
		UrgencyScore:    r.UrgencyScore,
		DuplicateScore:  r.DuplicateScore,
		SpamScore:       r.SpamScore,
		Confidence:      r.Confidence,
		Status:          r.Status,
		SimilarRequests: r.SimilarRequests,
		AIAnalysis:      r.AIAnalysis,
	}
}

// VerificationResult is returned by the stateless verify endpoint
type VerificationResult struct {
	UrgencyScore    int           `json:"urgencyScore"`
	DuplicateScore  int           `json:"duplicateScore"`
	SpamScore       int           `json:"spamScore"`
	Confidence      int           `json:"confidence"`
	Status          RequestStatus `json:"status"`
	SimilarRequests []string      `json:"similarRequests"`
	AIAnalysis      string        `json:"aiAnalysis"`
}

// ExistingRequest is a previously seen request sent along with a verify call
type ExistingRequest struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Location string `json:"location"`
}

// StatusCounts is the per-status breakdown shown on the dashboard tabs
type StatusCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Verified  int64 `json:"verified"`
	Flagged   int64 `json:"flagged"`
	Duplicate int64 `json:"duplicate"`
}

// UrgentEntry is a single row of the urgency board
type UrgentEntry struct {
	RequestID    string `json:"requestId"`
	UrgencyScore int    `json:"urgencyScore"`
	Rank         int    `json:"rank"`
}
