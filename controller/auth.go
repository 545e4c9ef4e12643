package controller

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/go-watchlist/watchlist/storage/model"
)

// MaxNameLength is the maximum length of a user's display name
const MaxNameLength = 20

// SettingsPage is the body of the settings form
type SettingsPage struct {
	Name string
}

// Login checks the credentials and starts a new session on success. A session
// presented with the request is always replaced.
func (env *Env) Login(req Request, username, password string) Result {
	if username == "" || password == "" {
		res := redirect(PathLogin, NoticeInvalidInput)
		res.Err = model.ValidationError{
			Kind:   model.ValidationEmpty,
			Reason: "username and password are required",
		}
		return res
	}
	user, err := env.Users.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			log.WithField("username", username).Info("failed login")
			res := redirect(PathLogin, NoticeInvalidCredentials)
			res.Err = err
			return res
		}
		return failure(err)
	}
	if err = env.Sessions.Destroy(req.Token); err != nil {
		log.WithError(err).Warn("could not destroy previous session")
	}
	token, err := env.Sessions.Create(user.ID)
	if err != nil {
		return failure(err)
	}
	log.WithField("user", user.ID).Info("login")
	res := redirect(PathIndex, NoticeLoginSuccess)
	res.SetToken = token
	return res
}

// Logout ends the caller's session
func (env *Env) Logout(req Request) Result {
	id := env.identify(req)
	if g := Guard(id, DenyRedirect); g != Allowed {
		return denied(g)
	}
	if err := env.Sessions.Destroy(req.Token); err != nil {
		return failure(err)
	}
	log.WithField("user", id.UserID).Info("logout")
	res := redirect(PathIndex, NoticeGoodbye)
	res.ClearToken = true
	return res
}

// Settings returns the settings form of the caller
func (env *Env) Settings(req Request) Result {
	id := env.identify(req)
	if g := Guard(id, DenyRedirect); g != Allowed {
		return denied(g)
	}
	user, err := env.Users.Get(id.UserID)
	if err != nil {
		return failure(err)
	}
	return Result{Body: SettingsPage{Name: user.Name}}
}

// UpdateSettings changes the caller's display name
func (env *Env) UpdateSettings(req Request, name string) Result {
	id := env.identify(req)
	if g := Guard(id, DenyRedirect); g != Allowed {
		return denied(g)
	}
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		kind := model.ValidationInvalid
		if name == "" {
			kind = model.ValidationEmpty
		}
		res := redirect(PathSettings, NoticeInvalidInput)
		res.Err = model.ValidationError{
			Kind:   kind,
			Reason: "name must have 1-20 characters",
		}
		return res
	}
	if _, err := env.Users.UpdateName(id.UserID, name); err != nil {
		var exists model.AlreadyExistsError
		if errors.As(err, &exists) {
			res := redirect(PathSettings, NoticeInvalidInput)
			res.Err = model.ValidationError{
				Kind:   model.ValidationInvalid,
				Reason: err.Error(),
			}
			return res
		}
		return failure(err)
	}
	log.WithField("user", id.UserID).Info("settings updated")
	return redirect(PathIndex, NoticeSettingsUpdated)
}
