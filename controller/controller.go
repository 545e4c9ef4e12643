// Package controller implements the watchlist operations independent of the
// transport. Every operation takes the caller's Request and returns a Result
// describing what the boundary should do next.
package controller

import (
	"fmt"

	"github.com/go-watchlist/watchlist/session"
	"github.com/go-watchlist/watchlist/storage/model"
)

// Paths the controllers redirect to
const (
	PathIndex    = "/"
	PathLogin    = "/login"
	PathSettings = "/settings"
)

// EditPath returns the path of the edit form for a movie
func EditPath(id uint) string {
	return fmt.Sprintf("/movie/edit/%d", id)
}

// User facing notices
const (
	NoticeInvalidInput       = "Invalid input."
	NoticeItemCreated        = "Item created."
	NoticeItemUpdated        = "Item updated."
	NoticeItemDeleted        = "Item deleted"
	NoticeLoginSuccess       = "Login success."
	NoticeInvalidCredentials = "Invalid username or password."
	NoticeGoodbye            = "Goodbye."
	NoticeSettingsUpdated    = "Settings updated."
	NoticeLoginRequired      = "Please log in to access this page."
)

// Env holds the collaborators of all operations
type Env struct {
	Sessions *session.Manager
	Movies   model.MoviesStore
	Users    model.UsersStore
}

// Request carries what an operation needs to know about the caller
type Request struct {
	// Token is the session token presented by the client, possibly empty
	Token string
}

// Result is the outcome of an operation.
//
// If Redirect is set the boundary pushes Notices and redirects, regardless of
// Err. Otherwise a non-nil Err is turned into an error response and Body is
// rendered on success.
type Result struct {
	Body       any
	Notices    []string
	Redirect   string
	SetToken   string
	ClearToken bool
	Err        error
}

func redirect(to string, notices ...string) Result {
	return Result{
		Redirect: to,
		Notices:  notices,
	}
}

func failure(err error) Result {
	return Result{Err: err}
}

// Layout is the data every page shows around its content
type Layout struct {
	OwnerName     string
	Authenticated bool
}

// Layout returns the page frame data for req
func (env *Env) Layout(req Request) Layout {
	l := Layout{
		Authenticated: env.identify(req).Authenticated(),
	}
	if owner, err := env.Users.First(); err == nil {
		l.OwnerName = owner.Name
	}
	return l
}

func (env *Env) identify(req Request) session.Identity {
	return env.Sessions.Resolve(req.Token)
}
