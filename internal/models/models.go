// Package models holds the value types shared by the session, cart and
// catalog services.
package models

// User is a registered account. Passwords are stored and compared as
// plain text.
type User struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// Product is a catalog entry. ID is the logical key, distinct from the
// handle the document store assigns to the product document.
type Product struct {
	ID          int     `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Price       float64 `json:"price" yaml:"price"`
	Description string  `json:"description" yaml:"description"`
	Image       string  `json:"image" yaml:"image"`
}

// Fields returns p as a document field map. Numbers keep their Go types so
// stores with typed fields keep id an integer.
func (p Product) Fields() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"price":       p.Price,
		"description": p.Description,
		"image":       p.Image,
	}
}

// LineItem is one cart line: a snapshot of the product taken when it was
// added and the quantity.
type LineItem struct {
	Product Product `json:"product" yaml:"product"`
	Amount  int     `json:"amount" yaml:"amount"`
}

func (li LineItem) Fields() map[string]any {
	return map[string]any{
		"product": li.Product.Fields(),
		"amount":  li.Amount,
	}
}

// Subtotal is price times amount for the line.
func (li LineItem) Subtotal() float64 {
	return li.Product.Price * float64(li.Amount)
}

// Total sums the subtotals of items.
func Total(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Subtotal()
	}
	return sum
}

// CloneItems returns a copy of items that shares no backing array with it.
// A nil or empty input yields an empty, non-nil slice.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
