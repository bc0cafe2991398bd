package metadata

import "fmt"

type ExitType string

const (
	ExitVehicleUse      ExitType = "vehicle_use"
	ExitAccessoryRental ExitType = "accessory_rental"
	ExitConsumption     ExitType = "consumption"
	ExitLossBreakage    ExitType = "loss_breakage"
	ExitOther           ExitType = "other"
)

func NewExitType(value string) (ExitType, error) {
	exitType := ExitType(value)
	if !exitType.isValid() {
		return "", fmt.Errorf("invalid exit type: %s", value)
	}
	return exitType, nil
}

func (t ExitType) isValid() bool {
	switch t {
	case ExitVehicleUse, ExitAccessoryRental, ExitConsumption, ExitLossBreakage, ExitOther:
		return true
	default:
		return false
	}
}

// TracksReturn reports whether exits of this type carry the rental
// return sub-state.
func (t ExitType) TracksReturn() bool {
	return t == ExitAccessoryRental
}

func (t ExitType) String() string {
	return string(t)
}
