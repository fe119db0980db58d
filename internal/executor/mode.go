package executor

import (
	"fmt"

	"github.com/spachava753/compatmatrix/internal/models"
)

// Mode is the run mode selected from the command line.
type Mode int

const (
	// ModeMatrix replays every tuple of the checks file.
	ModeMatrix Mode = iota
	// ModeSingleAxis varies only the primary component against the checks file.
	ModeSingleAxis
	// ModeExplicit checks exactly the tuple given on the command line.
	ModeExplicit
)

func (m Mode) String() string {
	switch m {
	case ModeSingleAxis:
		return "single-axis"
	case ModeExplicit:
		return "explicit"
	default:
		return "matrix"
	}
}

// Invocation is the parsed command line.
type Invocation struct {
	Mode Mode
	// Primary is the component varied in single-axis mode.
	Primary string
	// Version is the requested primary version in single-axis mode; empty
	// or the wildcard means latest.
	Version string
	// Tuple is the tuple to check in explicit mode.
	Tuple models.VersionTuple
}

// ParseArgs selects the run mode. No arguments selects the full matrix. A
// single argument naming the primary component, with or without a version,
// selects single-axis mode. Anything else is an explicit id:version tuple.
func ParseArgs(args []string, primary string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{Mode: ModeMatrix}, nil
	}

	pins := make([]models.Pin, 0, len(args))
	for _, arg := range args {
		pin, err := models.ParsePin(arg)
		if err != nil {
			return Invocation{}, err
		}
		pins = append(pins, pin)
	}

	if len(pins) == 1 && pins[0].ID == primary {
		return Invocation{Mode: ModeSingleAxis, Primary: primary, Version: pins[0].Version}, nil
	}

	var tuple models.VersionTuple
	for _, pin := range pins {
		if _, dup := tuple.Get(pin.ID); dup {
			return Invocation{}, fmt.Errorf("component %q given more than once", pin.ID)
		}
		if pin.Version == "" {
			pin.Version = models.Wildcard
		}
		tuple = append(tuple, pin)
	}
	return Invocation{Mode: ModeExplicit, Tuple: tuple}, nil
}

// NeedsChecks reports whether the mode reads the checks file.
func (inv Invocation) NeedsChecks() bool {
	return inv.Mode != ModeExplicit
}

// ResolveSingleAxis picks the tuple a single-axis invocation checks. Without
// a version (or with the wildcard) it is the last tuple in file order with the
// primary overridden to the wildcard; otherwise it is the first tuple whose
// primary version matches exactly.
func (inv Invocation) ResolveSingleAxis(checks []models.VersionTuple) (models.VersionTuple, error) {
	if inv.Version == "" || inv.Version == models.Wildcard {
		if len(checks) == 0 {
			return nil, models.NewError(models.ErrLookupFailed, inv.Primary, fmt.Errorf("checks file lists no tuples"))
		}
		return checks[len(checks)-1].With(inv.Primary, models.Wildcard), nil
	}

	for _, t := range checks {
		if v, ok := t.Get(inv.Primary); ok && v == inv.Version {
			return t, nil
		}
	}
	return nil, models.NewError(models.ErrLookupFailed, inv.Primary,
		fmt.Errorf("no tuple in checks file with %s:%s", inv.Primary, inv.Version))
}
