package model

// KeywordMatches lists the heuristic keywords found in a piece of text
type KeywordMatches struct {
	Urgency []string `json:"urgency"`
	Spam    []string `json:"spam"`
}

// ImageInfo describes an image attached to a multimodal report
type ImageInfo struct {
	Field           string   `json:"field"`
	Filename        string   `json:"filename"`
	Size            int64    `json:"size"`
	ContentType     string   `json:"contentType"`
	DetectedHazards []string `json:"detectedHazards"`
}

// MultimodalAnalysis is the mock classification of a text+images report
type MultimodalAnalysis struct {
	Text          string         `json:"text"`
	EmergencyType string         `json:"emergencyType"`
	Severity      string         `json:"severity"`
	UrgencyScore  int            `json:"urgencyScore"`
	SpamScore     int            `json:"spamScore"`
	Status        RequestStatus  `json:"status"`
	Keywords      KeywordMatches `json:"keywords"`
	ImageCount    int            `json:"imageCount"`
	Images        []ImageInfo    `json:"images"`
	Confidence    int            `json:"confidence"`
	Summary       string         `json:"summary"`
}

// AudioInfo describes the uploaded voice clip
type AudioInfo struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// VoiceEmergency is the generic emergency object extracted from a voice report
type VoiceEmergency struct {
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Location       string `json:"location"`
	PeopleAffected int    `json:"peopleAffected"`
	Confidence     int    `json:"confidence"`
}

// VoiceResult is the mock outcome of processing a voice report
type VoiceResult struct {
	Transcription string         `json:"transcription"`
	Language      string         `json:"language"`
	Audio         *AudioInfo     `json:"audio,omitempty"`
	Emergency     VoiceEmergency `json:"emergency"`
}
