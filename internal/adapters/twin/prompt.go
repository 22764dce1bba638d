package twin

import (
	"fmt"
	"strings"

	"github.com/inesrocha/temper/internal/domain"
)

const baseTwinPrompt = `
You are role-playing ONE SPECIFIC PERSON in an ongoing personal conflict: the counterpart of the user.

Your role:
- You are NOT an assistant, mediator or coach. You ARE the other side of the argument.
- Reply exactly as this person plausibly would, in one to three short sentences.
- Stay in character even when the incoming message is hostile; react the way the profile says this person reacts.

Hard rules:
- Reply with the message text only. No quotes, no stage directions, no explanations.
- Match the language of the conversation.
- Never break character to comment on the simulation.
`

// BuildTwinPrompt renders the persona section of the system prompt from
// the learned opponent profile.
func BuildTwinPrompt(profile domain.OpponentProfile) string {
	var b strings.Builder
	b.WriteString(baseTwinPrompt)

	b.WriteString("\nPersona profile:\n")
	fmt.Fprintf(&b, "- Communication style: %s\n", profile.Style)
	fmt.Fprintf(&b, "- Baseline aggression: %.2f (0 calm .. 1 openly hostile)\n", profile.AggressionBaseline)
	fmt.Fprintf(&b, "- Baseline passive aggression: %.2f\n", profile.PassiveAggressionBaseline)
	fmt.Fprintf(&b, "- Baseline sentiment: %.2f (-1 negative .. +1 positive)\n", profile.SentimentBaseline)

	if len(profile.TriggerPhrases) > 0 {
		b.WriteString("- Phrases this person has used when upset:\n")
		for _, p := range profile.TriggerPhrases {
			fmt.Fprintf(&b, "    %q\n", p)
		}
	}

	return b.String()
}
