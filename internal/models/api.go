package models

type FindRequest struct {
	Service   string  `json:"service" binding:"required"`
	Location  string  `json:"location" binding:"required"`
	MinRating float64 `json:"min_rating"`
}

type FindResponse struct {
	Query         FindRequest    `json:"query"`
	Results       []Professional `json:"results"`
	Count         int            `json:"count"`
	PriceCharged  string         `json:"price_charged"`
	PaymentStatus string         `json:"payment_status"`
}

type ServiceInfoResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Price     string            `json:"price"`
	Network   string            `json:"network"`
	Wallet    string            `json:"wallet"`
	Endpoints map[string]string `json:"endpoints"`
}

type HealthResponse struct {
	Status          string            `json:"status"`
	Service         string            `json:"service"`
	Timestamp       string            `json:"timestamp"`
	PaymentRequired bool              `json:"payment_required"`
	Price           string            `json:"price"`
	Network         string            `json:"network"`
	Services        map[string]string `json:"services,omitempty"`
}
