package security

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/iop/assets"
	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/pkg/filesystem"
	"github.com/doeshing/iop/internal/ports"
)

// Guardrail implements the SecurityService port.
type Guardrail struct {
	enabled  bool
	patterns []compiledPattern
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes a regex-based guardrail rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
	Action  string `yaml:"action"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	} `yaml:"rules"`
}

// NewGuardrail loads the rules named by settings, or the embedded defaults when no file is set.
// A disabled guardrail allows every command.
func NewGuardrail(settings domain.SecuritySettings) (*Guardrail, error) {
	if !settings.Enabled {
		return &Guardrail{}, nil
	}

	rules, err := loadRules(settings.RulesFile)
	if err != nil {
		return nil, err
	}

	var compiled []compiledPattern
	for _, pattern := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile guardrail pattern %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{
			re:   re,
			rule: pattern,
		})
	}

	return &Guardrail{enabled: true, patterns: compiled}, nil
}

// Evaluate implements ports.SecurityService.
func (g *Guardrail) Evaluate(command string) (domain.RiskAssessment, error) {
	assessment := domain.RiskAssessment{
		Level:  domain.RiskSafe,
		Action: domain.ActionAllow,
	}
	if g == nil || !g.enabled {
		return assessment, nil
	}
	highest := domain.RiskSafe
	for _, pattern := range g.patterns {
		if !pattern.re.MatchString(command) {
			continue
		}
		ruleLevel := parseRiskLevel(pattern.rule.Level)
		ruleAction := parseAction(pattern.rule.Action, ruleLevel)
		if moreSevere(ruleLevel, highest) || (ruleLevel == highest && actionRank(ruleAction) > actionRank(assessment.Action)) {
			highest = ruleLevel
			assessment.Level = ruleLevel
			assessment.Action = ruleAction
		}
		assessment.Reasons = append(assessment.Reasons, pattern.rule.Message)
		assessment.MatchedRules = append(assessment.MatchedRules, pattern.rule.Pattern)
	}
	return assessment, nil
}

func loadRules(path string) (RulesFile, error) {
	data := assets.DefaultGuardrailYAML
	if path != "" {
		custom, err := os.ReadFile(filesystem.ExpandPath(path))
		if err != nil {
			return RulesFile{}, fmt.Errorf("read guardrail rules: %w", err)
		}
		data = custom
	}
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, fmt.Errorf("parse guardrail rules: %w", err)
	}
	return rules, nil
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "low":
		return domain.RiskLow
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	default:
		return domain.RiskSafe
	}
}

func parseAction(value string, fallback domain.RiskLevel) domain.GuardrailAction {
	switch strings.ToLower(value) {
	case "allow":
		return domain.ActionAllow
	case "confirm":
		return domain.ActionConfirm
	case "explicit_confirm":
		return domain.ActionExplicitConfirm
	case "block":
		return domain.ActionBlock
	default:
		if fallback == domain.RiskSafe {
			return domain.ActionAllow
		}
		return domain.ActionConfirm
	}
}

func moreSevere(next domain.RiskLevel, current domain.RiskLevel) bool {
	order := map[domain.RiskLevel]int{
		domain.RiskSafe:     0,
		domain.RiskLow:      1,
		domain.RiskMedium:   2,
		domain.RiskHigh:     3,
		domain.RiskCritical: 4,
	}
	return order[next] > order[current]
}

func actionRank(action domain.GuardrailAction) int {
	switch action {
	case domain.ActionConfirm:
		return 1
	case domain.ActionExplicitConfirm:
		return 2
	case domain.ActionBlock:
		return 3
	default:
		return 0
	}
}

var _ ports.SecurityService = (*Guardrail)(nil)
