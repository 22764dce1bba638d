package twin

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/inesrocha/temper/internal/domain"
)

// VertexTwin implements domain.TwinClient on Vertex AI (Gemini). Used
// in GCP mode, where template replies are too flat for demoing the
// simulator.
type VertexTwin struct {
	client    *genai.Client
	modelName string
}

func NewVertexTwin(ctx context.Context, projectID, location, modelName string) (*VertexTwin, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("project and location are required for the Vertex twin")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexTwin{
		client:    client,
		modelName: modelName,
	}, nil
}

// Reply implements domain.TwinClient using Vertex AI.
func (v *VertexTwin) Reply(
	ctx context.Context,
	draft *domain.Turn,
	profile domain.OpponentProfile,
	history []*domain.Turn,
) (string, error) {
	system := BuildTwinPrompt(profile)

	// Recorded history as conversation: the opponent is the "model"
	// side, the user's messages are user turns.
	var contents []*genai.Content
	for _, t := range history {
		role := genai.RoleUser
		if t.Speaker == domain.SpeakerOpponent {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, genai.Role(role)))
	}

	contents = append(contents, genai.NewContentFromText(draft.Text, genai.RoleUser))

	temp := float32(0.7)
	topP := float32(0.9)
	outputTokens := int32(256)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("vertex returned empty text")
	}

	return text, nil
}
