package cli

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophcart/internal/models"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money formats prices in one currency for one locale.
type Money struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewMoney accepts an ISO 4217 currency code and a BCP 47 locale.
func NewMoney(code, locale string) (*Money, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}
	return &Money{unit: unit, printer: message.NewPrinter(tag)}, nil
}

func (m *Money) Format(v float64) string {
	return m.unit.String() + " " + m.printer.Sprintf("%.2f", v)
}

func renderProducts(w io.Writer, m *Money, products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products.")
		return
	}
	fmt.Fprintf(w, "%-4s %-20s %14s\n", "ID", "NAME", "PRICE")
	for _, p := range products {
		fmt.Fprintf(w, "%-4d %-20s %14s\n", p.ID, p.Name, m.Format(p.Price))
	}
}

func renderProduct(w io.Writer, m *Money, p models.Product) {
	fmt.Fprintf(w, "#%d %s\n", p.ID, p.Name)
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	fmt.Fprintf(w, "Price: %s\n", m.Format(p.Price))
	if p.Image != "" {
		fmt.Fprintf(w, "Image: %s\n", p.Image)
	}
}

func renderCart(w io.Writer, m *Money, items []models.LineItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	fmt.Fprintf(w, "%-4s %-20s %6s %14s\n", "ID", "NAME", "QTY", "SUBTOTAL")
	for _, it := range items {
		fmt.Fprintf(w, "%-4d %-20s %6d %14s\n", it.Product.ID, it.Product.Name, it.Amount, m.Format(it.Subtotal()))
	}
	fmt.Fprintf(w, "%-4s %-20s %6s %14s\n", "", "TOTAL", "", m.Format(models.Total(items)))
}
