package domain

import "fmt"

// SuccessMode selects how deploy tool results are classified
type SuccessMode string

const (
	// SuccessModeOutput treats non-empty output without "failed" as success.
	SuccessModeOutput SuccessMode = "output"
	// SuccessModeExitCode treats a zero exit status as success.
	SuccessModeExitCode SuccessMode = "exit_code"
	// SuccessModeStrict requires both the output and exit code checks to pass.
	SuccessModeStrict SuccessMode = "strict"
)

// String implements the Stringer interface
func (m SuccessMode) String() string {
	return string(m)
}

// IsValid checks if the SuccessMode is valid
func (m SuccessMode) IsValid() bool {
	switch m {
	case SuccessModeOutput, SuccessModeExitCode, SuccessModeStrict:
		return true
	default:
		return false
	}
}

// ParseSuccessMode parses a string into a SuccessMode
func ParseSuccessMode(s string) (SuccessMode, error) {
	mode := SuccessMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid success mode: %s", s)
	}
	return mode, nil
}

// GitBackend selects the version control implementation
type GitBackend string

const (
	GitBackendGoGit GitBackend = "gogit"
	GitBackendCLI   GitBackend = "cli"
)

// IsValid checks if the GitBackend is valid
func (b GitBackend) IsValid() bool {
	switch b {
	case GitBackendGoGit, GitBackendCLI:
		return true
	default:
		return false
	}
}
