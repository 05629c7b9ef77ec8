package transactions

// CartItem is one requested line in a checkout. Pointer fields distinguish
// absent values from zero so the shape checks can tell them apart.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
	Price     *int64 `json:"price"`
}

// CheckoutForm is the checkout request body.
type CheckoutForm struct {
	Items   []CartItem `json:"items"`
	Payment *int64     `json:"payment"`
}
