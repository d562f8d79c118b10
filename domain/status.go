package domain

import "fmt"

// OutcomeStatus represents the result of a single application deploy attempt
type OutcomeStatus int

const (
	OutcomeUnknown OutcomeStatus = iota
	OutcomeDeployed
	OutcomeFailed
	OutcomeNoOp
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeDeployed:
		return "deployed"
	case OutcomeFailed:
		return "failed"
	case OutcomeNoOp:
		return "noop"
	case OutcomeUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

func ParseOutcomeStatus(s string) (OutcomeStatus, error) {
	switch s {
	case "deployed":
		return OutcomeDeployed, nil
	case "failed":
		return OutcomeFailed, nil
	case "noop":
		return OutcomeNoOp, nil
	case "unknown":
		return OutcomeUnknown, nil
	default:
		return OutcomeUnknown, fmt.Errorf("invalid outcome status: %q", s)
	}
}
