package domain

// OrderRow is one parsed line of the daily order export (table mode).
// Identifier-like and quantity columns stay textual so values such as
// "007" or overlong phone numbers survive the round trip unchanged.
type OrderRow struct {
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
	ShippingDate    string  `json:"shippingDate"`
	OrderID         string  `json:"orderId"`
	ProductName     string  `json:"productName"`
	ProductCategory string  `json:"productCategory"`
	MetalType       string  `json:"metalType"`
	Size            string  `json:"size"`
	Weight          float64 `json:"weight"`
	Quantity        string  `json:"quantity"`
	Price           float64 `json:"price"`
	Sale            float64 `json:"sale"`
	ShippingCost    float64 `json:"shippingCost"`
	OrderSum        float64 `json:"orderSum"`
	OrderSource     string  `json:"orderSource"`
	City            string  `json:"city"`
	Status          string  `json:"status"`
	PaymentMethod   string  `json:"paymentMethod"`
	ClientID        string  `json:"clientId"`
	UserID          string  `json:"userId"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	AuthPhone       string  `json:"authPhone"`
}
