package metadata

import "fmt"

// ReturnState is the rental return sub-state of an accessory-rental exit.
// The empty state means the exit does not track returns at all.
type ReturnState string

const (
	ReturnNone      ReturnState = ""
	ReturnPending   ReturnState = "en_cours"
	ReturnedOK      ReturnState = "retourne_ok"
	ReturnedDamaged ReturnState = "retourne_endommage"
	ReturnedNever   ReturnState = "non_retourne"
)

func NewReturnState(value string) (ReturnState, error) {
	state := ReturnState(value)
	if !state.isValid() {
		return "", fmt.Errorf("invalid return state: %s", value)
	}
	return state, nil
}

func (s ReturnState) isValid() bool {
	switch s {
	case ReturnNone, ReturnPending, ReturnedOK, ReturnedDamaged, ReturnedNever:
		return true
	default:
		return false
	}
}

// Terminal reports whether the state can never transition again.
func (s ReturnState) Terminal() bool {
	switch s {
	case ReturnedOK, ReturnedDamaged, ReturnedNever:
		return true
	default:
		return false
	}
}

// CanTransitionTo allows exactly one move: en_cours into a terminal state.
func (s ReturnState) CanTransitionTo(target ReturnState) bool {
	return s == ReturnPending && target.Terminal()
}

func (s ReturnState) String() string {
	return string(s)
}
