package intent

import (
	"strings"
	"testing"

	"github.com/doeshing/iop/internal/domain"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		input  string
		modify bool
		want   domain.Decision
	}{
		{"", true, domain.DecisionRun},
		{"  ", true, domain.DecisionRun},
		{"y", true, domain.DecisionRun},
		{"YES", true, domain.DecisionRun},
		{"Д", true, domain.DecisionRun},
		{"да", true, domain.DecisionRun},
		{"m", true, domain.DecisionModify},
		{"Modify", true, domain.DecisionModify},
		{"И", true, domain.DecisionModify},
		{"m", false, domain.DecisionAbort},
		{"и", false, domain.DecisionAbort},
		{"c", true, domain.DecisionCopy},
		{"К", true, domain.DecisionCopy},
		{"s", true, domain.DecisionScript},
		{"С", true, domain.DecisionScript},
		{"script", false, domain.DecisionScript},
		{"n", true, domain.DecisionAbort},
		{"н", true, domain.DecisionAbort},
		{"x", true, domain.DecisionAbort},
		{"yes please", true, domain.DecisionAbort},
	}
	for _, tt := range tests {
		if got := ParseDecision(tt.input, tt.modify); got != tt.want {
			t.Errorf("ParseDecision(%q, %v) = %s, want %s", tt.input, tt.modify, got, tt.want)
		}
	}
}

func TestPromptTextHidesModify(t *testing.T) {
	if !strings.Contains(PromptText(true), "[m]odify") {
		t.Fatal("modify option missing when enabled")
	}
	if strings.Contains(PromptText(false), "[m]odify") {
		t.Fatal("modify option shown when disabled")
	}
}
