// Package intent maps the answer typed at the confirmation prompt to a decision.
package intent

import (
	"strings"

	"github.com/doeshing/iop/internal/domain"
)

// Answers accepted for each decision. The single Cyrillic letters are the
// initials of the Russian answer words.
var answers = map[string]domain.Decision{
	"":       domain.DecisionRun,
	"y":      domain.DecisionRun,
	"yes":    domain.DecisionRun,
	"д":      domain.DecisionRun,
	"да":     domain.DecisionRun,
	"m":      domain.DecisionModify,
	"modify": domain.DecisionModify,
	"и":      domain.DecisionModify,
	"c":      domain.DecisionCopy,
	"copy":   domain.DecisionCopy,
	"к":      domain.DecisionCopy,
	"s":      domain.DecisionScript,
	"script": domain.DecisionScript,
	"с":      domain.DecisionScript,
}

// ParseDecision trims and lowercases input. Unknown input aborts, and so does
// modify when modifyEnabled is false.
func ParseDecision(input string, modifyEnabled bool) domain.Decision {
	decision, ok := answers[strings.ToLower(strings.TrimSpace(input))]
	if !ok {
		return domain.DecisionAbort
	}
	if decision == domain.DecisionModify && !modifyEnabled {
		return domain.DecisionAbort
	}
	return decision
}

// PromptText is the confirmation question listing the available answers.
func PromptText(modifyEnabled bool) string {
	var b strings.Builder
	b.WriteString("Run the command? [Y]es [n]o")
	if modifyEnabled {
		b.WriteString(" [m]odify")
	}
	b.WriteString(" [c]opy [s]cript ==> ")
	return b.String()
}
