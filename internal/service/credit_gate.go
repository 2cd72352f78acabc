package service

import "app/internal/model"

// GateDecision is the outcome of a credit gate evaluation.
type GateDecision int

const (
	// GateAllow permits the generation to run.
	GateAllow GateDecision = iota
	// GateDenyInactive blocks the generation: no subscription, or an
	// inactive one.
	GateDenyInactive
	// GateDenyInsufficient blocks the generation: not enough credits.
	GateDenyInsufficient
)

// GateResult is the decision plus the numbers behind it. For
// GateDenyInsufficient, Needed and Available carry the exact shortfall
// surfaced to the user.
type GateResult struct {
	Decision  GateDecision
	Cost      int
	Needed    int
	Available int
}

// EvaluateGate decides whether a generation of the given kind may
// proceed against a subscription snapshot. Pure: no I/O, deterministic,
// safe to call repeatedly. The snapshot may already be stale by the
// time the caller acts on an allow.
func EvaluateGate(snapshot *model.UserSubscription, kind model.GenerationKind) GateResult {
	cost := kind.CreditCost()
	if snapshot == nil || !snapshot.IsActive {
		return GateResult{Decision: GateDenyInactive, Cost: cost}
	}
	if snapshot.CreditsRemaining < cost {
		return GateResult{
			Decision:  GateDenyInsufficient,
			Cost:      cost,
			Needed:    cost,
			Available: snapshot.CreditsRemaining,
		}
	}
	return GateResult{Decision: GateAllow, Cost: cost}
}

// Err maps a deny decision to its service error, nil for allow.
func (g GateResult) Err() error {
	switch g.Decision {
	case GateDenyInactive:
		return ErrPlanInactive
	case GateDenyInsufficient:
		return &InsufficientCreditsError{Needed: g.Needed, Available: g.Available}
	default:
		return nil
	}
}
