package domain

import "context"

// InferenceClient defines how the core application reaches the external
// sentiment/emotion models. Implementations may call a remote inference
// API or run a local heuristic.
type InferenceClient interface {
	Sentiment(ctx context.Context, text string) (Sentiment, error)
	Emotions(ctx context.Context, text string) (EmotionReading, error)
}

// TwinClient generates the opponent's likely reply to a draft message,
// given their learned profile and the conversation so far. The draft
// arrives as an analyzed (unsaved) turn so implementations can react to
// its tone.
type TwinClient interface {
	Reply(ctx context.Context, draft *Turn, profile OpponentProfile, history []*Turn) (string, error)
}

// SessionStore defines session persistence.
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	UpdateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id SessionID) (*Session, error)
	ListSessionsByUser(ctx context.Context, userID UserID, limit int) ([]*Session, error)
}

// TurnStore defines turn persistence. Turns come back ordered by Index.
type TurnStore interface {
	AppendTurn(ctx context.Context, turn *Turn) error
	TurnsBySession(ctx context.Context, sessionID SessionID) ([]*Turn, error)
	CountTurns(ctx context.Context, sessionID SessionID) (int, error)
}

// AssessmentStore persists session-level assessment snapshots.
type AssessmentStore interface {
	SaveAssessment(ctx context.Context, a *SessionAssessment) error
	LatestAssessment(ctx context.Context, sessionID SessionID) (*SessionAssessment, error)
}

// OpponentStore persists learned opponent profiles per session.
type OpponentStore interface {
	SaveOpponentProfile(ctx context.Context, sessionID SessionID, p *OpponentProfile) error
	GetOpponentProfile(ctx context.Context, sessionID SessionID) (*OpponentProfile, error)
}
