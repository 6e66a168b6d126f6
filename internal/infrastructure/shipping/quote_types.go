package shipping

// quoteRequest is the body of the carrier aggregator's calculate call
type quoteRequest struct {
	From     quoteAddress   `json:"from"`
	To       quoteAddress   `json:"to"`
	Products []quoteProduct `json:"products"`
}

type quoteAddress struct {
	PostalCode string `json:"postal_code"`
}

type quoteProduct struct {
	ID             string  `json:"id"`
	Quantity       int     `json:"quantity"`
	InsuranceValue float64 `json:"insurance_value"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Length         int     `json:"length"`
	Weight         float64 `json:"weight"`
}

// quoteService is one carrier service in the response. Services the carrier
// cannot deliver come back with Error set and no price.
type quoteService struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Price        string       `json:"price"`
	CustomPrice  string       `json:"custom_price"`
	DeliveryTime int          `json:"delivery_time"`
	Error        string       `json:"error"`
	Company      quoteCompany `json:"company"`
}

type quoteCompany struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
