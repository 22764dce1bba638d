package domain

import "time"

type SessionID string
type UserID string
type TurnID string
type AssessmentID string

type Speaker string

const (
	SpeakerUser     Speaker = "user"
	SpeakerOpponent Speaker = "opponent"
)

// Trend is the short-term direction of a session's conflict scores.
type Trend string

const (
	TrendEscalating   Trend = "escalating"
	TrendDeEscalating Trend = "de-escalating"
	TrendStable       Trend = "stable"
)

// Severity grades a detected cognitive bias.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Weight maps a severity to its contribution in the turn conflict score.
// Unknown severities count as medium.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityLow:
		return 0.2
	case SeverityMedium:
		return 0.5
	case SeverityHigh:
		return 0.8
	case SeverityCritical:
		return 1.0
	default:
		return 0.5
	}
}

// CommunicationStyle classifies how a participant tends to engage.
type CommunicationStyle string

const (
	StyleAggressive        CommunicationStyle = "aggressive"
	StylePassiveAggressive CommunicationStyle = "passive_aggressive"
	StyleAvoidant          CommunicationStyle = "avoidant"
	StyleConstructive      CommunicationStyle = "constructive"
	StyleNeutral           CommunicationStyle = "neutral"
)

type Timestamp = time.Time
