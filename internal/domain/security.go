package domain

// RiskLevel enumerates guardrail outcomes.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// GuardrailAction describes how the evaluator should react to a risk level.
type GuardrailAction string

const (
	ActionAllow           GuardrailAction = "allow"
	ActionConfirm         GuardrailAction = "confirm"
	ActionExplicitConfirm GuardrailAction = "explicit_confirm"
	ActionBlock           GuardrailAction = "block"
)

// RiskAssessment aggregates security evaluation data.
type RiskAssessment struct {
	Level        RiskLevel
	Action       GuardrailAction
	Reasons      []string
	MatchedRules []string
}

// Blocks reports whether the command must never run.
func (r RiskAssessment) Blocks() bool {
	return r.Action == ActionBlock
}

// RequiresConfirmation reports whether the prompt is mandatory regardless of safety settings.
func (r RiskAssessment) RequiresConfirmation() bool {
	return r.Action == ActionConfirm || r.Action == ActionExplicitConfirm
}
