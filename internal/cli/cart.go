package cli

import (
	"context"
	"fmt"
	"strconv"
)

// AddToCart handles "add <id> [amount]"; the amount defaults to 1.
func (a *App) AddToCart(ctx context.Context, args []string) error {
	id, err := parseID(args, "add <id> [amount]")
	if err != nil {
		notify(a.out, "Usage", "add <id> [amount]")
		return err
	}

	amount := 1
	if len(args) > 1 {
		if amount, err = strconv.Atoi(args[1]); err != nil {
			notify(a.out, "Usage", "add <id> [amount]")
			return err
		}
	}

	p, ok := a.product(ctx, id)
	if !ok {
		notify(a.out, "Cart", fmt.Sprintf("No product with id %d.", id))
		return nil
	}

	if err := a.cart.AddItem(ctx, p, amount); err != nil {
		notifyError(a.out, "Cart", err)
		return err
	}
	notify(a.out, "Cart", fmt.Sprintf("Added %d x %s.", amount, p.Name))
	return nil
}

func (a *App) Cart(ctx context.Context) error {
	renderCart(a.out, a.money, a.cart.Items())
	return nil
}

// UpdateAmount handles "update <id> <amount>". Amounts that are not a
// positive number become 1.
func (a *App) UpdateAmount(ctx context.Context, args []string) error {
	id, err := parseID(args, "update <id> <amount>")
	if err != nil || len(args) < 2 {
		notify(a.out, "Usage", "update <id> <amount>")
		return err
	}

	if err := a.cart.UpdateAmountText(ctx, id, args[1]); err != nil {
		notifyError(a.out, "Cart", err)
		return err
	}
	renderCart(a.out, a.money, a.cart.Items())
	return nil
}

func (a *App) RemoveFromCart(ctx context.Context, args []string) error {
	id, err := parseID(args, "remove <id>")
	if err != nil {
		notify(a.out, "Usage", "remove <id>")
		return err
	}

	if err := a.cart.RemoveItem(ctx, id); err != nil {
		notifyError(a.out, "Cart", err)
		return err
	}
	renderCart(a.out, a.money, a.cart.Items())
	return nil
}

func (a *App) Checkout(ctx context.Context) error {
	if len(a.cart.Items()) == 0 {
		notify(a.out, "Checkout", "Your cart is empty.")
		return nil
	}

	purchased, err := a.cart.Checkout(ctx)
	if err != nil {
		notifyError(a.out, "Checkout failed", err)
		return err
	}

	renderCart(a.out, a.money, purchased)
	notify(a.out, "Checkout", "Thank you for your order!")
	return nil
}
