package dto

// ── notifications ──

type NotificationListRequest struct {
	PaginationRequest
	UnreadOnly bool   `form:"unread"`
	Type       string `form:"type" binding:"omitempty,max=50"`
}

// ── reports ──

type TrendRequest struct {
	GroupBy string `form:"group_by" binding:"omitempty,oneof=day month"`
	From    string `form:"from"     binding:"omitempty,datetime=2006-01-02"`
	To      string `form:"to"       binding:"omitempty,datetime=2006-01-02"`
}

type ExportDonationsRequest struct {
	Status string `form:"status" binding:"omitempty,donation_status"`
	Type   string `form:"type"   binding:"omitempty,donation_type"`
	From   string `form:"from"   binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to"     binding:"omitempty,datetime=2006-01-02"`
}

// StatsRequest filters the per-user statistics. to is inclusive.
type StatsRequest struct {
	UserID string `form:"user_id"   binding:"omitempty,uuid"`
	From   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"date_to"   binding:"omitempty,datetime=2006-01-02"`
	Status string `form:"status"    binding:"omitempty,max=20"`
}
