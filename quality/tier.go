// Package quality holds the global fidelity tier and the rule engine
// that moves it in response to collected metrics.
package quality

import "fmt"

// Tier is the discrete, ordered global quality setting. Consumers
// (the texture reducer, renderer-facing settings) read it; only the
// adjustment engine and explicit overrides write it.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
	TierUltra

	// TierAuto is a mode, not a rung: passing it to SetTier re-enables
	// automatic adjustment instead of selecting a fidelity level.
	TierAuto Tier = -1
)

const (
	minTier = TierLow
	maxTier = TierUltra
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	case TierUltra:
		return "ultra"
	case TierAuto:
		return "auto"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier maps a config string to a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "low":
		return TierLow, nil
	case "medium":
		return TierMedium, nil
	case "high":
		return TierHigh, nil
	case "ultra":
		return TierUltra, nil
	case "auto":
		return TierAuto, nil
	default:
		return TierLow, fmt.Errorf("unknown quality tier %q", s)
	}
}

// Valid reports whether t is a fidelity rung (TierAuto is not).
func (t Tier) Valid() bool {
	return t >= minTier && t <= maxTier
}

// lower returns the next tier down, clamped at the floor.
func (t Tier) lower() Tier {
	if t <= minTier {
		return minTier
	}
	return t - 1
}

// higher returns the next tier up, clamped at the ceiling.
func (t Tier) higher() Tier {
	if t >= maxTier {
		return maxTier
	}
	return t + 1
}
