package dto

// ProductRequest is the admin product create/update payload
type ProductRequest struct {
	Name         string `json:"name"`
	JoyAmount    int64  `json:"joy_amount"`
	PriceUSDT    string `json:"price_usdt"`
	PriceKRW     string `json:"price_krw"`
	DiscountRate int64  `json:"discount_rate"`
	SortOrder    int    `json:"sort_order"`
	IsActive     *bool  `json:"is_active"`
}

// ProductResponse is the API view of a catalog entry
type ProductResponse struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	JoyAmount    int64  `json:"joy_amount"`
	PriceUSDT    string `json:"price_usdt"`
	PriceKRW     string `json:"price_krw"`
	DiscountRate int64  `json:"discount_rate"`
	SortOrder    int    `json:"sort_order"`
	IsActive     bool   `json:"is_active"`
}

// SetRateRequest is the admin exchange-rate payload
type SetRateRequest struct {
	JoyPerUSDT          string `json:"joy_per_usdt" binding:"required"`
	JoyToKRW            string `json:"joy_to_krw"`
	USDTToKRW           string `json:"usdt_to_krw"`
	ReferralBonusPoints int64  `json:"referral_bonus_points"`
}

// RateResponse is the API view of the active exchange rate
type RateResponse struct {
	JoyPerUSDT          string `json:"joy_per_usdt"`
	JoyToKRW            string `json:"joy_to_krw"`
	USDTToKRW           string `json:"usdt_to_krw"`
	ReferralBonusPoints int64  `json:"referral_bonus_points"`
	UpdatedAt           string `json:"updated_at"`
}

// SettingsResponse is the admin operational settings view. ExchangeRate is
// null until a rate has been configured.
type SettingsResponse struct {
	ExchangeRate     *RateResponse     `json:"exchange_rate"`
	DepositAddresses map[string]string `json:"deposit_addresses"`
}
