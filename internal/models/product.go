package models

// Product is an affiliate item. LinkedAccountID is a soft reference to a twitter account.
type Product struct {
	ID              string `json:"id"`
	AffiliateLink   string `json:"affiliate_link"`
	LinkedAccountID string `json:"twitter_uuid"`
}

type ProductFields struct {
	AffiliateLink   string `json:"affiliate_link" validate:"required|fullUrl"`
	LinkedAccountID string `json:"twitter_uuid" validate:"required"`
}
