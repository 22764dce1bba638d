package profile

import (
	"context"

	"github.com/inesrocha/temper/internal/domain"
)

// Dashboard bundles the profile with recent sessions, an improvement
// figure and insight messages for the overview screen.
type Dashboard struct {
	Profile               *domain.UserProfile
	RecentSessions        []SessionSummary
	ImprovementPercentage float64
	Insights              []Insight
}

type SessionSummary struct {
	SessionID   domain.SessionID
	SessionName string
	CreatedAt   domain.Timestamp
	TurnCount   int
}

type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (s *Service) Dashboard(ctx context.Context, userID domain.UserID) (*Dashboard, error) {
	profile, err := s.UserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.sessions.ListSessionsByUser(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(recent))
	for _, session := range recent {
		count, err := s.turns.CountTurns(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, SessionSummary{
			SessionID:   session.ID,
			SessionName: session.Name,
			CreatedAt:   session.CreatedAt,
			TurnCount:   count,
		})
	}

	return &Dashboard{
		Profile:               profile,
		RecentSessions:        summaries,
		ImprovementPercentage: improvement(profile.ConflictHistory),
		Insights:              insights(profile),
	}, nil
}

// improvement compares the first sessions against the latest ones; only
// a drop in conflict counts, a worsening trend reads as zero.
func improvement(history []domain.ConflictHistoryPoint) float64 {
	if len(history) < 2 {
		return 0
	}

	head := history
	if len(head) > 3 {
		head = head[:3]
	}
	tail := history
	if len(tail) > 3 {
		tail = tail[len(tail)-3:]
	}

	diff := avgScore(head) - avgScore(tail)
	if diff < 0 {
		return 0
	}
	return diff * 100
}

func avgScore(points []domain.ConflictHistoryPoint) float64 {
	var sum float64
	for _, p := range points {
		sum += p.ConflictScore
	}
	return sum / float64(len(points))
}

func insights(p *domain.UserProfile) []Insight {
	var out []Insight

	if p.BlameFrequency > 0.5 {
		out = append(out, Insight{
			Type:    "warning",
			Message: "High blame frequency detected. Try focusing on your own feelings and needs.",
		})
	}

	switch p.DominantStyle {
	case domain.StyleAggressive:
		out = append(out, Insight{
			Type:    "tip",
			Message: "Your style tends toward aggressive. Consider using 'I feel' statements.",
		})
	case domain.StylePassiveAggressive:
		out = append(out, Insight{
			Type:    "tip",
			Message: "You often use passive-aggressive communication. Try being more direct.",
		})
	case domain.StyleConstructive:
		out = append(out, Insight{
			Type:    "positive",
			Message: "Great job! Your communication style is constructive.",
		})
	}

	if p.TotalConflicts > 0 && p.EscalationContribution < 0.3 {
		out = append(out, Insight{
			Type:    "positive",
			Message: "You're good at keeping conflicts from escalating.",
		})
	}

	return out
}
