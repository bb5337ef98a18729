package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"surakshaconnect/internal/metrics"
	"surakshaconnect/internal/model"
	"surakshaconnect/internal/triage"
)

const defaultLanguage = "en"

// Mock hazards reported for every attached image, by emergency type.
var imageHazards = map[string][]string{
	"fire":       {"smoke", "open flames"},
	"flood":      {"standing water"},
	"medical":    {"injured person"},
	"structural": {"debris", "structural damage"},
	"general":    {"no hazard detected"},
}

var voiceTranscriptions = map[string]string{
	"en": "There is a fire in my building and people are trapped on the third floor. Please send help immediately.",
	"hi": "मेरी इमारत में आग लगी है और लोग तीसरी मंजिल पर फंसे हुए हैं। कृपया तुरंत मदद भेजें।",
	"bn": "আমার ভবনে আগুন লেগেছে এবং লোকজন তিনতলায় আটকে আছে। অনুগ্রহ করে এখনই সাহায্য পাঠান।",
	"ta": "என் கட்டிடத்தில் தீ பிடித்துள்ளது, மூன்றாவது மாடியில் மக்கள் சிக்கியுள்ளனர். உடனே உதவி அனுப்புங்கள்.",
}

// IntakeService produces the mock classifications of the multimodal and
// voice intake forms
type IntakeService struct {
	scorer  *triage.Scorer
	delay   time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewIntakeService creates a new intake service
func NewIntakeService(scorer *triage.Scorer, delay time.Duration, m *metrics.Metrics, logger *slog.Logger) *IntakeService {
	return &IntakeService{
		scorer:  scorer,
		delay:   delay,
		metrics: m,
		logger:  logger,
	}
}

// ProcessMultimodal classifies a text report with attached images
func (s *IntakeService) ProcessMultimodal(ctx context.Context, text string, images []model.ImageInfo) (*model.MultimodalAnalysis, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	scores := s.scorer.Score(text)
	urgencyKw, spamKw := s.scorer.MatchedKeywords(text)
	emergencyType := triage.EmergencyType(text)
	severity := triage.Severity(scores.Urgency)

	analyzed := make([]model.ImageInfo, len(images))
	for i, img := range images {
		img.DetectedHazards = append([]string(nil), imageHazards[emergencyType]...)
		analyzed[i] = img
	}

	result := &model.MultimodalAnalysis{
		Text:          text,
		EmergencyType: emergencyType,
		Severity:      severity,
		UrgencyScore:  scores.Urgency,
		SpamScore:     scores.Spam,
		Status:        triage.Classify(scores),
		Keywords: model.KeywordMatches{
			Urgency: urgencyKw,
			Spam:    spamKw,
		},
		ImageCount: len(analyzed),
		Images:     analyzed,
		Confidence: s.scorer.Confidence(),
		Summary: fmt.Sprintf("%s severity %s report with %d image(s); matched %d urgency keyword(s).",
			capitalize(severity), emergencyType, len(analyzed), len(urgencyKw)),
	}

	s.metrics.IntakeProcessed.WithLabelValues("multimodal").Inc()
	s.logger.Info("multimodal report processed", "type", emergencyType, "severity", severity, "images", len(analyzed))
	return result, nil
}

// ProcessVoice returns the fixed mock transcription for a voice report.
// Missing audio is not rejected.
func (s *IntakeService) ProcessVoice(ctx context.Context, language string, audio *model.AudioInfo) (*model.VoiceResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		lang = defaultLanguage
	}
	transcription, ok := voiceTranscriptions[lang]
	if !ok {
		transcription = voiceTranscriptions[defaultLanguage]
	}

	result := &model.VoiceResult{
		Transcription: transcription,
		Language:      lang,
		Audio:         audio,
		Emergency: model.VoiceEmergency{
			Type:           "fire",
			Severity:       triage.SeverityHigh,
			Location:       "unknown",
			PeopleAffected: 5,
			Confidence:     85,
		},
	}

	s.metrics.IntakeProcessed.WithLabelValues("voice").Inc()
	s.logger.Info("voice report processed", "language", lang, "has_audio", audio != nil)
	return result, nil
}

// wait applies the cosmetic processing delay
func (s *IntakeService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
