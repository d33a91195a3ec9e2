package dto

// ViolationRequest is filed by the abuse detector or an admin.
type ViolationRequest struct {
	UserID   string `json:"user_id" binding:"required,uuid"`
	Reason   string `json:"reason" binding:"required"`
	Severity string `json:"severity" binding:"omitempty,oneof=minor severe"`
}

type ResolveBonusInput struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}
