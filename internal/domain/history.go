package domain

import "time"

// HistoryRecord captures executed command metadata.
type HistoryRecord struct {
	Timestamp       time.Time `json:"timestamp"`
	Query           string    `json:"query"`
	Command         string    `json:"command"`
	Model           string    `json:"model"`
	Executed        bool      `json:"executed"`
	Success         bool      `json:"success"`
	ExitCode        int       `json:"exit_code"`
	RiskLevel       RiskLevel `json:"risk_level"`
	ExecutionTimeMS int64     `json:"execution_time_ms"`
}
