package notify

import (
	"fmt"

	"github.com/pushr-cd/pushr/domain"
)

// maxSubjectRunes bounds the commit subject quoted in a success message.
const maxSubjectRunes = 100

// SuccessMessage announces a deployed revision.
func SuccessMessage(name string, commit domain.CommitInfo) string {
	return fmt.Sprintf("Deployed %s with revision %s - %s", name, commit.Hash, truncate(commit.Message, maxSubjectRunes))
}

// FailureMessage announces a failed deployment.
func FailureMessage(name string) string {
	return fmt.Sprintf("FAIL! Deploying %s failed. Check log for details.", name)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
