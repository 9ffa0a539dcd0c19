package dto

// PlatformStatsResponse is the admin dashboard payload
type PlatformStatsResponse struct {
	TotalUsers int64                `json:"total_users"`
	Deposits   DepositStatsResponse `json:"deposits"`
}
