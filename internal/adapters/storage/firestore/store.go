package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/inesrocha/temper/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (TEMPER_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

func (s *Store) sessionDocRef(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

func (s *Store) turnsCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.sessionDocRef(sessionID).Collection("turns")
}

func (s *Store) assessmentsCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.sessionDocRef(sessionID).Collection("assessments")
}

func (s *Store) opponentDocRef(sessionID domain.SessionID) *firestore.DocumentRef {
	return s.sessionDocRef(sessionID).Collection("opponent").Doc("model")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type sessionDoc struct {
	UserID    string    `firestore:"user_id"`
	Name      string    `firestore:"name"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type turnDoc struct {
	SessionID string              `firestore:"session_id"`
	Index     int                 `firestore:"turn_index"`
	Speaker   string              `firestore:"speaker"`
	Text      string              `firestore:"text"`
	CreatedAt time.Time           `firestore:"created_at"`
	Analysis  domain.TurnAnalysis `firestore:"analysis"`
}

type assessmentDoc struct {
	SessionID  string            `firestore:"session_id"`
	CreatedAt  time.Time         `firestore:"created_at"`
	Assessment domain.Assessment `firestore:"assessment"`
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	doc := sessionDoc{
		UserID:    string(session.UserID),
		Name:      session.Name,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}

	_, err := s.sessionDocRef(session.ID).Create(ctx, doc)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrSessionExists
		}
		return fmt.Errorf("firestore CreateSession: %w", err)
	}
	return nil
}

func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	doc := map[string]interface{}{
		"user_id":    string(session.UserID),
		"name":       session.Name,
		"created_at": session.CreatedAt,
		"updated_at": session.UpdatedAt,
	}

	_, err := s.sessionDocRef(session.ID).Set(ctx, doc, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore UpdateSession: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	snap, err := s.sessionDocRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore GetSession: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetSession decode: %w", err)
	}

	return &domain.Session{
		ID:        id,
		UserID:    domain.UserID(doc.UserID),
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *Store) ListSessionsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	q := s.sessionsCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Session
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListSessionsByUser: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode sessionDoc: %w", err)
		}

		out = append(out, &domain.Session{
			ID:        domain.SessionID(snap.Ref.ID),
			UserID:    domain.UserID(doc.UserID),
			Name:      doc.Name,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────
// TurnStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendTurn(ctx context.Context, turn *domain.Turn) error {
	doc := turnDoc{
		SessionID: string(turn.SessionID),
		Index:     turn.Index,
		Speaker:   string(turn.Speaker),
		Text:      turn.Text,
		CreatedAt: turn.CreatedAt,
		Analysis:  turn.Analysis,
	}

	_, err := s.turnsCol(turn.SessionID).Doc(string(turn.ID)).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore AppendTurn: %w", err)
	}
	return nil
}

func (s *Store) TurnsBySession(ctx context.Context, sessionID domain.SessionID) ([]*domain.Turn, error) {
	q := s.turnsCol(sessionID).OrderBy("turn_index", firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Turn
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore TurnsBySession: %w", err)
		}

		var doc turnDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode turnDoc: %w", err)
		}

		out = append(out, &domain.Turn{
			ID:        domain.TurnID(snap.Ref.ID),
			SessionID: sessionID,
			Index:     doc.Index,
			Speaker:   domain.Speaker(doc.Speaker),
			Text:      doc.Text,
			CreatedAt: doc.CreatedAt,
			Analysis:  doc.Analysis,
		})
	}
	return out, nil
}

func (s *Store) CountTurns(ctx context.Context, sessionID domain.SessionID) (int, error) {
	// Firestore has no cheap COUNT; the turn collections stay small
	// enough that reading IDs is acceptable.
	iter := s.turnsCol(sessionID).Select().Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return 0, fmt.Errorf("firestore CountTurns: %w", err)
		}
		count++
	}
	return count, nil
}

// ─────────────────────────────────────────
// AssessmentStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveAssessment(ctx context.Context, a *domain.SessionAssessment) error {
	doc := assessmentDoc{
		SessionID:  string(a.SessionID),
		CreatedAt:  a.CreatedAt,
		Assessment: a.Assessment,
	}

	_, err := s.assessmentsCol(a.SessionID).Doc(string(a.ID)).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore SaveAssessment: %w", err)
	}
	return nil
}

func (s *Store) LatestAssessment(ctx context.Context, sessionID domain.SessionID) (*domain.SessionAssessment, error) {
	q := s.assessmentsCol(sessionID).OrderBy("created_at", firestore.Desc).Limit(1)

	iter := q.Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore LatestAssessment: %w", err)
	}

	var doc assessmentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode assessmentDoc: %w", err)
	}

	return &domain.SessionAssessment{
		ID:         domain.AssessmentID(snap.Ref.ID),
		SessionID:  sessionID,
		CreatedAt:  doc.CreatedAt,
		Assessment: doc.Assessment,
	}, nil
}

// ─────────────────────────────────────────
// OpponentStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveOpponentProfile(ctx context.Context, sessionID domain.SessionID, p *domain.OpponentProfile) error {
	_, err := s.opponentDocRef(sessionID).Set(ctx, p)
	if err != nil {
		return fmt.Errorf("firestore SaveOpponentProfile: %w", err)
	}
	return nil
}

func (s *Store) GetOpponentProfile(ctx context.Context, sessionID domain.SessionID) (*domain.OpponentProfile, error) {
	snap, err := s.opponentDocRef(sessionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetOpponentProfile: %w", err)
	}

	var profile domain.OpponentProfile
	if err := snap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("decode opponent profile: %w", err)
	}
	return &profile, nil
}
