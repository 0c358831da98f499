package domain

// Environment describes where the proposed command will run.
type Environment struct {
	Shell      string
	OS         string
	WorkingDir string
	Windows    bool
}
