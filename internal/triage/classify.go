package triage

import "surakshaconnect/internal/model"

// Policy thresholds, checked in order.
const (
	flagSpamAbove      = 70
	duplicateAbove     = 80
	verifyUrgencyAbove = 70
	verifySpamBelow    = 20
)

// Classify maps scores to a status. First match wins:
//  1. spam > 70                   -> flagged
//  2. duplicate > 80              -> duplicate
//  3. urgency > 70 and spam < 20  -> verified
//  4. otherwise                   -> pending
//
// Spam is checked first so a spammy report is never auto-verified,
// however urgent it reads.
func Classify(s Scores) model.RequestStatus {
	switch {
	case s.Spam > flagSpamAbove:
		return model.StatusFlagged
	case s.Duplicate > duplicateAbove:
		return model.StatusDuplicate
	case s.Urgency > verifyUrgencyAbove && s.Spam < verifySpamBelow:
		return model.StatusVerified
	default:
		return model.StatusPending
	}
}
