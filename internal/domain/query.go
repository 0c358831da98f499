package domain

// QueryRequest captures one invocation of the assistant.
type QueryRequest struct {
	Prompt string
	// Ask forces the confirmation prompt even when safety is off.
	Ask   bool
	Shell string
}

// PendingCommand is the proposed command awaiting a decision, with the query it came from.
type PendingCommand struct {
	Query   string
	Command string
}

// Decision is the user's answer to a proposed command.
type Decision string

const (
	DecisionRun    Decision = "run"
	DecisionModify Decision = "modify"
	DecisionCopy   Decision = "copy"
	DecisionScript Decision = "script"
	DecisionAbort  Decision = "abort"
)

// QueryResponse summarizes what a run ended up doing.
type QueryResponse struct {
	Pending         PendingCommand
	Decision        Decision
	Cycles          int
	RiskAssessment  RiskAssessment
	ExecutionResult *ExecutionResult
	Script          *ScriptArtifact
	Copied          bool
}

// ExecutionResult wraps details from the command executor.
type ExecutionResult struct {
	Ran        bool
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMS int64
	Err        error
}

// Succeeded reports a clean zero exit.
func (r ExecutionResult) Succeeded() bool {
	return r.Ran && r.Err == nil && r.ExitCode == 0
}

// ScriptArtifact describes a generated script on disk.
type ScriptArtifact struct {
	Path       string
	RunCommand string
}
