package domain

// CartLine is one product and its quantity in the cart
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
