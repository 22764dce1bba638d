package signals

import (
	"regexp"
	"strings"

	"github.com/inesrocha/temper/internal/domain"
)

type biasRule struct {
	bias     domain.BiasType
	desc     string
	severity domain.Severity
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

var biasRules = []biasRule{
	{
		bias:     domain.BiasOvergeneralization,
		desc:     "Using absolute terms (always, never, everyone)",
		severity: domain.SeverityMedium,
		patterns: compileAll(`\balways\b`, `\bnever\b`, `\beveryone\b`, `\bno one\b`, `\bevery time\b`, `\ball the time\b`),
	},
	{
		bias:     domain.BiasMindReading,
		desc:     "Assuming to know other's thoughts or intentions",
		severity: domain.SeverityMedium,
		patterns: compileAll(`\byou think\b`, `\byou believe\b`, `\byou want to\b`, `\byou're trying to\b`, `\byou just want\b`),
	},
	{
		bias:     domain.BiasCatastrophizing,
		desc:     "Exaggerating negative outcomes",
		severity: domain.SeverityHigh,
		patterns: compileAll(`\bruined\b`, `\bdestroyed\b`, `\bterrible\b`, `\bawful\b`, `\bdisaster\b`, `\bcatastrophe\b`),
	},
	{
		bias:     domain.BiasPersonalization,
		desc:     "Attributing responsibility to others unfairly",
		severity: domain.SeverityHigh,
		patterns: compileAll(`\byou make me\b`, `\byou caused\b`, `\byour fault\b`),
	},
	{
		bias:     domain.BiasGaslighting,
		desc:     "Attempting to make the other doubt their perception",
		severity: domain.SeverityCritical,
		patterns: compileAll(`\byou're overreacting\b`, `\byou're too sensitive\b`, `\bthat never happened\b`, `\byou're imagining things\b`, `\byou're crazy\b`),
	},
}

// DetectBiases returns at most one tag per bias type, in rule order.
func DetectBiases(text string) []domain.BiasTag {
	lower := strings.ToLower(text)

	var tags []domain.BiasTag
	for _, rule := range biasRules {
		for _, re := range rule.patterns {
			if re.MatchString(lower) {
				tags = append(tags, domain.BiasTag{
					Type:        rule.bias,
					Description: rule.desc,
					Severity:    rule.severity,
				})
				break
			}
		}
	}
	return tags
}
