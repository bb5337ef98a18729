package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"surakshaconnect/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		scores Scores
		want   model.RequestStatus
	}{
		{"spam above 70 flags", Scores{Urgency: 10, Spam: 71, Duplicate: 10}, model.StatusFlagged},
		{"spam beats urgency", Scores{Urgency: 100, Spam: 90, Duplicate: 10}, model.StatusFlagged},
		{"spam beats duplicate", Scores{Urgency: 10, Spam: 71, Duplicate: 95}, model.StatusFlagged},
		{"spam at 70 is not flagged", Scores{Urgency: 10, Spam: 70, Duplicate: 10}, model.StatusPending},
		{"duplicate above 80", Scores{Urgency: 90, Spam: 5, Duplicate: 81}, model.StatusDuplicate},
		{"duplicate at 80 falls through", Scores{Urgency: 90, Spam: 5, Duplicate: 80}, model.StatusVerified},
		{"urgent and clean verifies", Scores{Urgency: 71, Spam: 19, Duplicate: 30}, model.StatusVerified},
		{"urgency at 70 stays pending", Scores{Urgency: 70, Spam: 0, Duplicate: 30}, model.StatusPending},
		{"spam at 20 blocks verify", Scores{Urgency: 95, Spam: 20, Duplicate: 30}, model.StatusPending},
		{"low everything", Scores{Urgency: 25, Spam: 3, Duplicate: 15}, model.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.scores))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	scores := Scores{Urgency: 88, Spam: 12, Duplicate: 33}
	first := Classify(scores)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(scores))
	}
}

func TestSpamKeywordsFlagRegardlessOfUrgency(t *testing.T) {
	s := NewScorer(maxSource())
	scores := s.Score("Trapped and bleeding! Free money, click this link to win a prize")

	assert.Greater(t, scores.Spam, 70)
	assert.Greater(t, scores.Urgency, 70)
	assert.Equal(t, model.StatusFlagged, Classify(scores))
}

func TestCollapsedBuildingExample(t *testing.T) {
	content := "Building collapsed, trapped, bleeding"

	high := Classify(NewScorer(maxSource()).Score(content))
	assert.Equal(t, model.StatusVerified, high)

	low := Classify(NewScorer(minSource()).Score(content))
	assert.Equal(t, model.StatusPending, low)
}
