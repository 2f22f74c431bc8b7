package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a recording fake.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Products(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	AddToCart(ctx context.Context, args []string) error
	Cart(ctx context.Context) error
	UpdateAmount(ctx context.Context, args []string) error
	RemoveFromCart(ctx context.Context, args []string) error
	Checkout(ctx context.Context) error
	AddProduct(ctx context.Context) error
	EditProduct(ctx context.Context, args []string) error
	RemoveProduct(ctx context.Context, args []string) error
}

const (
	guestHelp = "Available commands: register, login, help, exit"
	userHelp  = "Available commands: products, show <id>, add <id> [amount], cart, update <id> <amount>, " +
		"remove <id>, checkout, addproduct, editproduct <id>, removeproduct <id>, logout, help, exit"
)

var commands = map[string]bool{
	"help": true, "register": true, "login": true, "logout": true, "exit": true, "quit": true,
	"products": true, "show": true, "add": true, "cart": true, "update": true, "remove": true,
	"checkout": true, "addproduct": true, "editproduct": true, "removeproduct": true,
}

var guestCommands = map[string]bool{
	"help": true, "register": true, "login": true, "exit": true, "quit": true,
}

// guard applies the navigation rules to a known command. It returns the
// command to run instead and a notice, or cmd itself and "".
func guard(cmd string, loggedIn bool) (string, string) {
	switch {
	case !loggedIn && !guestCommands[cmd]:
		return "login", "Please log in first."
	case loggedIn && (cmd == "register" || cmd == "login"):
		return "products", "You are already logged in."
	}
	return cmd, ""
}

// runREPL reads commands from reader until exit or end of input. Handler
// errors are reported by the handlers themselves and do not stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "gophcart (%s)> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if !commands[cmd] {
			fmt.Fprintln(w, "Unknown command:", cmd)
			continue
		}

		next, notice := guard(cmd, a.isLoggedIn())
		if notice != "" {
			notify(w, "Navigation", notice)
			cmd, args = next, nil
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, userHelp)
			} else {
				fmt.Fprintln(w, guestHelp)
			}
		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "products":
			_ = a.Products(ctx)
		case "show":
			_ = a.Show(ctx, args)
		case "add":
			_ = a.AddToCart(ctx, args)
		case "cart":
			_ = a.Cart(ctx)
		case "update":
			_ = a.UpdateAmount(ctx, args)
		case "remove":
			_ = a.RemoveFromCart(ctx, args)
		case "checkout":
			_ = a.Checkout(ctx)
		case "addproduct":
			_ = a.AddProduct(ctx)
		case "editproduct":
			_ = a.EditProduct(ctx, args)
		case "removeproduct":
			_ = a.RemoveProduct(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		}

		if err != nil {
			return
		}
	}
}
