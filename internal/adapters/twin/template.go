// Package twin provides the opponent-reply generators behind
// domain.TwinClient: a deterministic template twin for local mode and a
// Vertex AI (Gemini) twin for GCP mode.
package twin

import (
	"context"
	"hash/fnv"

	"github.com/inesrocha/temper/internal/domain"
)

// A draft above this conflict score puts the twin in its triggered mood.
const triggerThreshold = 0.5

// TemplateTwin generates replies from a fixed table keyed by the
// opponent's communication style and mood. Deterministic: the same
// draft and profile always produce the same reply, which keeps
// simulations reproducible.
type TemplateTwin struct{}

func NewTemplateTwin() *TemplateTwin {
	return &TemplateTwin{}
}

var replyTemplates = map[domain.CommunicationStyle]map[string][]string{
	domain.StyleAggressive: {
		"calm": {
			"That's not what I meant at all.",
			"You're twisting my words.",
			"Here we go again.",
		},
		"triggered": {
			"Are you serious right now?",
			"You always do this!",
			"I'm done with this conversation.",
			"This is ridiculous.",
		},
	},
	domain.StylePassiveAggressive: {
		"calm": {
			"Sure, whatever you say.",
			"If that's how you feel...",
			"I guess that's fine.",
			"Do what you want.",
		},
		"triggered": {
			"Well, excuse me for existing.",
			"Sorry for caring.",
			"My bad for trying.",
			"Fine. You win.",
		},
	},
	domain.StyleAvoidant: {
		"calm": {
			"Can we talk about this later?",
			"I don't want to get into this now.",
			"Let's just move on.",
		},
		"triggered": {
			"I can't deal with this right now.",
			"I need space.",
			"This is too much.",
		},
	},
	domain.StyleConstructive: {
		"calm": {
			"I hear what you're saying.",
			"Let me think about that.",
			"Can we find a middle ground?",
		},
		"triggered": {
			"I feel hurt by that.",
			"This is important to me.",
			"I need you to understand my perspective.",
		},
	},
	domain.StyleNeutral: {
		"calm": {
			"Okay.",
			"I understand.",
			"Let's figure this out.",
		},
		"triggered": {
			"I disagree with that.",
			"That's not fair.",
			"I don't think that's right.",
		},
	},
}

func (t *TemplateTwin) Reply(_ context.Context, draft *domain.Turn, profile domain.OpponentProfile, _ []*domain.Turn) (string, error) {
	style := profile.Style
	if _, ok := replyTemplates[style]; !ok {
		style = domain.StyleNeutral
	}

	mood := "calm"
	if draft.Analysis.ConflictScore > triggerThreshold {
		mood = "triggered"
	}

	templates := replyTemplates[style][mood]
	pick := fnv32(draft.Text)
	reply := templates[int(pick)%len(templates)]

	// Personalize with one of the opponent's own trigger phrases on
	// roughly half the drafts, keyed off the same hash.
	if len(profile.TriggerPhrases) > 0 && pick%2 == 1 {
		reply += " " + profile.TriggerPhrases[int(pick/2)%len(profile.TriggerPhrases)]
	}

	return reply, nil
}

func fnv32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
