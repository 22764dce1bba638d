package domain

// Session represents one conflict being worked through (could last days).
type Session struct {
	ID        SessionID
	UserID    UserID
	Name      string
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// Turn is a single message in a session's dialogue, together with the
// analysis computed when it was ingested. Turns are immutable once
// recorded and ordered by Index.
type Turn struct {
	ID        TurnID
	SessionID SessionID
	Index     int
	Speaker   Speaker
	Text      string
	CreatedAt Timestamp

	Analysis TurnAnalysis
}

// TurnAnalysis holds the per-message signals produced on ingestion.
type TurnAnalysis struct {
	Sentiment              Sentiment
	Emotions               EmotionReading
	AggressionScore        float64
	PassiveAggressionScore float64
	ConflictScore          float64
	BiasTags               []BiasTag
	Features               LinguisticFeatures
}

// Sentiment is a single-label sentiment classification.
// Polarity is +1 for positive, -1 for negative.
type Sentiment struct {
	Label    string
	Score    float64
	Polarity float64
}

// EmotionReading is the per-emotion score distribution for a message.
type EmotionReading struct {
	Scores   map[string]float64
	Dominant string
	// Aggression is the anger component, used directly in scoring.
	Aggression float64
}

// LinguisticFeatures are surface-level counts used for style profiling.
type LinguisticFeatures struct {
	YouStatements int
	IStatements   int
	QuestionCount int
	SentenceCount int
	WordCount     int
}
