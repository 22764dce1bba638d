package signals

import (
	"strings"
	"unicode"

	"github.com/inesrocha/temper/internal/domain"
)

// ExtractFeatures computes the surface counts used for style profiling.
// Tokenization is a plain whitespace/punctuation split; close enough to
// the upstream tagger for counting pronouns and sentences.
func ExtractFeatures(text string) domain.LinguisticFeatures {
	words := tokenize(text)

	var f domain.LinguisticFeatures
	f.WordCount = len(words)
	for _, w := range words {
		switch strings.ToLower(w) {
		case "you":
			f.YouStatements++
		case "i":
			f.IStatements++
		}
	}

	f.QuestionCount = strings.Count(text, "?")
	f.SentenceCount = countSentences(text)

	return f
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

func countSentences(text string) int {
	count := 0
	inSentence := false
	for _, r := range text {
		switch {
		case r == '.' || r == '!' || r == '?':
			if inSentence {
				count++
				inSentence = false
			}
		case !unicode.IsSpace(r):
			inSentence = true
		}
	}
	if inSentence {
		count++
	}
	return count
}
