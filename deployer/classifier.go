package deployer

import (
	"strings"

	"github.com/pushr-cd/pushr/domain"
)

// FailureMarker in deploy tool output marks a failed deployment.
const FailureMarker = "failed"

// Classify decides whether a deploy tool run succeeded.
//
// In output mode (the default) a run succeeded when its text is non-empty and
// does not contain FailureMarker. The match is case-sensitive and unanchored, so
// "0 failed" or "Failed" in unrelated output are treated literally.
func Classify(mode domain.SuccessMode, text string, exitCode int) bool {
	switch mode {
	case domain.SuccessModeExitCode:
		return exitCode == 0
	case domain.SuccessModeStrict:
		return exitCode == 0 && outputSucceeded(text)
	default:
		return outputSucceeded(text)
	}
}

func outputSucceeded(text string) bool {
	return text != "" && !strings.Contains(text, FailureMarker)
}
