package domain

// BiasType identifies a detectable cognitive bias pattern.
type BiasType string

const (
	BiasOvergeneralization BiasType = "overgeneralization"
	BiasMindReading        BiasType = "mind_reading"
	BiasCatastrophizing    BiasType = "catastrophizing"
	BiasPersonalization    BiasType = "personalization"
	BiasGaslighting        BiasType = "gaslighting"
)

// BiasTag is one detected cognitive bias in a message.
type BiasTag struct {
	Type        BiasType `json:"type"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Assessment is the derived session-level picture: a deterministic pure
// function of the ordered turn history, recomputed on demand.
type Assessment struct {
	OverallConflictScore   float64
	EscalationProbability  float64
	PassiveAggressionIndex float64
	Trend                  Trend

	CognitiveBiases []BiasTag
	NVC             NVCAnalysis
	Recommendations []Recommendation
	Metrics         ConversationMetrics
}

// ConversationMetrics are aggregate figures over the whole history.
type ConversationMetrics struct {
	AvgAggression float64
	MaxConflict   float64
	TotalBiases   int
}

// NVCAnalysis maps the latest message onto the nonviolent-communication
// frame: observation vs evaluation, emotion, underlying need.
type NVCAnalysis struct {
	Observation   string  `json:"observation"`
	HasEvaluation bool    `json:"has_evaluation"`
	Emotion       string  `json:"emotion"`
	LikelyNeed    string  `json:"likely_need"`
	Score         float64 `json:"nvc_score"`
}

// Recommendation is one actionable suggestion derived from an assessment.
type Recommendation struct {
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// SessionAssessment is a persisted assessment snapshot.
type SessionAssessment struct {
	ID        AssessmentID
	SessionID SessionID
	CreatedAt Timestamp

	Assessment Assessment
}

// ResponsePattern is an observed trigger→response pair from the opponent.
type ResponsePattern struct {
	Trigger  string `json:"trigger"`
	Response string `json:"response"`
}

// OpponentProfile is the digital-twin model of the other participant,
// learned from their recorded turns.
type OpponentProfile struct {
	Style                     CommunicationStyle
	SentimentBaseline         float64
	AggressionBaseline        float64
	PassiveAggressionBaseline float64
	TriggerPhrases            []string
	ResponsePatterns          []ResponsePattern
	Features                  LinguisticFeatures
}

// UserProfile summarizes a user's conflict behaviour across sessions.
type UserProfile struct {
	UserID UserID

	TotalConflicts         int
	BlameFrequency         float64
	YouStatementsShare     float64
	EscalationContribution float64
	DominantStyle          CommunicationStyle
	StyleDistribution      map[CommunicationStyle]float64
	ConflictHistory        []ConflictHistoryPoint
}

// ConflictHistoryPoint is one session's mean conflict score, for charting.
type ConflictHistoryPoint struct {
	SessionID     SessionID `json:"session_id"`
	SessionName   string    `json:"session_name"`
	Date          Timestamp `json:"date"`
	ConflictScore float64   `json:"conflict_score"`
}
