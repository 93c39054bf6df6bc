package domain

// CartItem is one selected product. Quantity is implicitly one; adding
// the same product twice is a no-op, never a quantity bump.
type CartItem struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Poster    string  `json:"poster,omitempty"`
}

// OrderUser is the profile snapshot embedded in an order.
type OrderUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	ID    int64  `json:"id"`
}

// Order is a persisted purchase derived from a cart snapshot. Immutable
// from the storefront's perspective once created.
type Order struct {
	ID         int64      `json:"id,omitempty"`
	CartList   []CartItem `json:"cartList"`
	AmountPaid float64    `json:"amount_paid"`
	Quantity   int        `json:"quantity"`
	User       OrderUser  `json:"user"`
}

// Payment carries the card fields collected at checkout. They are
// presence-checked only and never persisted with the order.
type Payment struct {
	CardNumber string `json:"cardNumber"`
	Month      string `json:"month"`
	Year       string `json:"year"`
	CVV        string `json:"cvv"`
}

// MissingFields lists the payment fields left blank.
func (p Payment) MissingFields() []string {
	var missing []string
	if p.CardNumber == "" {
		missing = append(missing, "cardNumber")
	}
	if p.Month == "" {
		missing = append(missing, "month")
	}
	if p.Year == "" {
		missing = append(missing, "year")
	}
	if p.CVV == "" {
		missing = append(missing, "cvv")
	}
	return missing
}
