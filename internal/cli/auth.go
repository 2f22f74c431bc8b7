package cli

import (
	"context"

	"github.com/dmitrijs2005/gophcart/internal/common"
)

// credentials prompts for a username and a password.
func (a *App) credentials() (string, []byte, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}

func (a *App) Register(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Register(ctx, username, string(password)); err != nil {
		notifyError(a.out, "Registration failed", err)
		return err
	}

	notify(a.out, "Registration", "Account "+username+" created, you can log in now.")
	return nil
}

// Login authenticates and shows the product list. When the cart cannot be
// loaded the user is still logged in and is told so.
func (a *App) Login(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.session.Login(ctx, username, string(password))
	if !a.session.IsLoggedIn() {
		notifyError(a.out, "Login failed", err)
		return err
	}

	notify(a.out, "Login", "Logged in as "+username)
	if err != nil {
		notifyError(a.out, "Cart", err)
	}
	return a.Products(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	username := a.session.Username()
	if err := a.session.Logout(ctx); err != nil {
		notifyError(a.out, "Logout", err)
		return err
	}
	notify(a.out, "Logout", "Goodbye, "+username)
	return nil
}
