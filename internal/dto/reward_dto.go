package dto

// ActionRequest reports one user action to the policy engine. For post
// actions the body and media count create the post record; target_id is
// required for actions aimed at existing content.
type ActionRequest struct {
	ActionType      string `json:"action_type" binding:"required,oneof=post like comment share friendship livestream wallet_connect referral"`
	TargetID        string `json:"target_id"`
	Body            string `json:"body"`
	MediaCount      int    `json:"media_count" binding:"min=0"`
	DurationSeconds int    `json:"duration_seconds" binding:"min=0"`
}

type ActionTypeSummary struct {
	Count int64 `json:"count"`
	Cap   int64 `json:"cap"`
}

// DailySummary shows today's rewarded counts against the configured caps.
type DailySummary struct {
	Day            string                       `json:"day"`
	PerAction      map[string]ActionTypeSummary `json:"per_action"`
	TotalAmount    int64                        `json:"total_amount"`
	GlobalDailyCap int64                        `json:"global_daily_cap"`
	PolicyVersion  string                       `json:"policy_version"`
}
