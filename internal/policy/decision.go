package policy

// Reason classifies the outcome of a reward evaluation. Rejections are
// expected, user-visible results, never errors: the underlying action
// (posting, liking) still succeeds even when the reward is withheld.
type Reason string

const (
	ReasonGranted           Reason = "granted"
	ReasonBanned            Reason = "banned"
	ReasonSuspended         Reason = "suspended"
	ReasonAlreadyRewarded   Reason = "already_rewarded"
	ReasonDailyCapReached   Reason = "daily_cap_reached"
	ReasonGlobalCapReached  Reason = "global_cap_reached"
	ReasonQualityGateFailed Reason = "quality_gate_failed"
)

// Decision is the result of evaluating one action against the reward policy.
type Decision struct {
	Granted bool   `json:"granted"`
	Reason  Reason `json:"reason"`

	// Amount credited when granted, 0 otherwise.
	Amount int64 `json:"amount"`

	// PendingTotal is the account's pending reward after this decision.
	PendingTotal int64 `json:"pending_total"`
}

// Reject builds a rejection decision carrying the current pending total.
func Reject(reason Reason, pendingTotal int64) Decision {
	return Decision{Granted: false, Reason: reason, PendingTotal: pendingTotal}
}

// Grant builds a success decision.
func Grant(amount, pendingTotal int64) Decision {
	return Decision{Granted: true, Reason: ReasonGranted, Amount: amount, PendingTotal: pendingTotal}
}
