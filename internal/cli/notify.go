package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophcart/internal/catalog"
	"github.com/dmitrijs2005/gophcart/internal/common"
)

// notify prints a titled one-line message.
func notify(w io.Writer, title, msg string) {
	fmt.Fprintf(w, "[%s] %s\n", title, msg)
}

func notifyError(w io.Writer, title string, err error) {
	notify(w, title, describe(err))
}

var errorTexts = []struct {
	kind error
	text string
}{
	{common.ErrInvalidLength, "Username and password must be at least 5 characters long."},
	{common.ErrNotAlphanumeric, "Username may contain letters and digits only."},
	{common.ErrDuplicate, "Already exists."},
	{common.ErrInconsistentState, "Your cart is not loaded, please log in again."},
	{common.ErrNotFound, "Not found."},
	{common.ErrUnauthorized, "Wrong username or password."},
	{common.ErrInvalidToken, "Your saved session is no longer valid, please log in."},
	{catalog.ErrNoPublisher, "Image uploads are not configured, enter an image URL instead."},
	{common.ErrRemoteCall, "The store could not be reached, please try again later."},
}

// describe turns an error into a message for the user.
func describe(err error) string {
	for _, e := range errorTexts {
		if errors.Is(err, e.kind) {
			return e.text
		}
	}
	return err.Error()
}
