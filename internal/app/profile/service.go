// Package profile aggregates a user's conflict behaviour across all of
// their sessions into long-term metrics and dashboard data.
package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inesrocha/temper/internal/domain"
	"github.com/inesrocha/temper/internal/observability"
)

const historyLimit = 10

type Service struct {
	sessions domain.SessionStore
	turns    domain.TurnStore

	now func() time.Time
}

func NewService(sessions domain.SessionStore, turns domain.TurnStore) *Service {
	return &Service{
		sessions: sessions,
		turns:    turns,
		now:      time.Now,
	}
}

// UserProfile computes the user's behaviour metrics from their full
// session history. A user with no sessions gets an empty profile, not
// an error.
func (s *Service) UserProfile(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	sessions, err := s.sessions.ListSessionsByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	profile := &domain.UserProfile{
		UserID:            userID,
		TotalConflicts:    len(sessions),
		DominantStyle:     domain.StyleNeutral,
		StyleDistribution: map[domain.CommunicationStyle]float64{},
	}
	if len(sessions) == 0 {
		return profile, nil
	}

	// Sessions arrive newest first; the history chart and improvement
	// math want chronological order.
	var userTurns []*domain.Turn
	for i := len(sessions) - 1; i >= 0; i-- {
		session := sessions[i]
		turns, err := s.turns.TurnsBySession(ctx, session.ID)
		if err != nil {
			return nil, err
		}

		var sum float64
		var count int
		for _, t := range turns {
			if t.Speaker != domain.SpeakerUser {
				continue
			}
			userTurns = append(userTurns, t)
			sum += t.Analysis.ConflictScore
			count++
		}

		point := domain.ConflictHistoryPoint{
			SessionID:   session.ID,
			SessionName: session.Name,
			Date:        session.CreatedAt,
		}
		if count > 0 {
			point.ConflictScore = sum / float64(count)
		}
		profile.ConflictHistory = append(profile.ConflictHistory, point)
	}

	if len(profile.ConflictHistory) > historyLimit {
		profile.ConflictHistory = profile.ConflictHistory[len(profile.ConflictHistory)-historyLimit:]
	}

	if len(userTurns) == 0 {
		return profile, nil
	}

	n := float64(len(userTurns))

	var blame, you int
	var escalation, aggression, passive float64
	for _, t := range userTurns {
		for _, b := range t.Analysis.BiasTags {
			if b.Type == domain.BiasPersonalization {
				blame++
				break
			}
		}
		if strings.Contains(strings.ToLower(t.Text), "you") {
			you++
		}
		escalation += t.Analysis.ConflictScore
		aggression += t.Analysis.AggressionScore
		passive += t.Analysis.PassiveAggressionScore
	}

	profile.BlameFrequency = float64(blame) / n
	profile.YouStatementsShare = float64(you) / n
	profile.EscalationContribution = escalation / n

	avgAggression := aggression / n
	avgPassive := passive / n

	profile.DominantStyle = dominantStyle(avgAggression, avgPassive, profile.EscalationContribution)
	profile.StyleDistribution = styleDistribution(avgAggression, avgPassive, profile.EscalationContribution, profile.DominantStyle)

	observability.LoggerFromContext(ctx).Info("user profile computed",
		"user_id", userID,
		"sessions", profile.TotalConflicts,
		"dominant_style", profile.DominantStyle,
	)

	return profile, nil
}

func dominantStyle(aggression, passive, escalation float64) domain.CommunicationStyle {
	switch {
	case aggression > 0.6:
		return domain.StyleAggressive
	case passive > 0.5:
		return domain.StylePassiveAggressive
	case aggression < 0.2 && passive < 0.2:
		if escalation < 0.3 {
			return domain.StyleConstructive
		}
		return domain.StyleAvoidant
	default:
		return domain.StyleNeutral
	}
}

func styleDistribution(aggression, passive, escalation float64, dominant domain.CommunicationStyle) map[domain.CommunicationStyle]float64 {
	avoidant := 0.2
	if dominant == domain.StyleAvoidant {
		avoidant = 0.5
	}
	constructive := 1.0 - escalation
	if constructive < 0 {
		constructive = 0
	}
	return map[domain.CommunicationStyle]float64{
		domain.StyleAggressive:        min1(aggression),
		domain.StylePassiveAggressive: min1(passive),
		domain.StyleAvoidant:          avoidant,
		domain.StyleConstructive:      constructive,
	}
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
