package triage

import (
	"fmt"
	"strings"

	"surakshaconnect/internal/model"
)

// Severity levels used by the intake endpoints
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// emergencyTypes is checked in order; the first category with a hit wins.
var emergencyTypes = []struct {
	name     string
	keywords []string
}{
	{"fire", []string{"fire", "smoke", "burning", "flames"}},
	{"flood", []string{"flood", "drowning", "water level", "submerged"}},
	{"medical", []string{"bleeding", "chest pain", "unconscious", "injured", "heart attack"}},
	{"structural", []string{"collapsed", "trapped", "debris", "building"}},
}

// Analyze builds the explanation text for a classified report. The output
// depends only on its arguments.
func Analyze(s Scores, status model.RequestStatus, similar int) string {
	level := UrgencyLevel(s.Urgency)
	switch status {
	case model.StatusFlagged:
		return fmt.Sprintf("Content shows strong promotional indicators (spam %d/100). Flagged as likely spam; urgency %d/100 (%s) was not considered.",
			s.Spam, s.Urgency, level)
	case model.StatusDuplicate:
		return fmt.Sprintf("Content closely resembles earlier reports (duplicate %d/100, %d similar). Marked as duplicate; urgency %d/100 (%s).",
			s.Duplicate, similar, s.Urgency, level)
	case model.StatusVerified:
		return fmt.Sprintf("Report indicates a %s emergency (urgency %d/100) with low spam likelihood (spam %d/100). Verified for dispatch.",
			level, s.Urgency, s.Spam)
	default:
		return fmt.Sprintf("Urgency %d/100 (%s), spam %d/100, duplicate %d/100. Awaiting manual review.",
			s.Urgency, level, s.Spam, s.Duplicate)
	}
}

// UrgencyLevel names the urgency band of a score
func UrgencyLevel(urgency int) string {
	switch {
	case urgency > 70:
		return "critical"
	case urgency >= 40:
		return "elevated"
	default:
		return "low"
	}
}

// Severity maps an urgency score to a severity label
func Severity(urgency int) string {
	switch {
	case urgency > 70:
		return SeverityCritical
	case urgency > 50:
		return SeverityHigh
	case urgency > 30:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// EmergencyType guesses the kind of emergency from keywords, "general" when nothing matches
func EmergencyType(content string) string {
	text := strings.ToLower(content)
	for _, et := range emergencyTypes {
		if len(matchKeywords(text, et.keywords)) > 0 {
			return et.name
		}
	}
	return "general"
}
