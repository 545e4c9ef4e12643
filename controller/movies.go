package controller

import (
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/go-watchlist/watchlist/storage/model"
)

// Field limits for movies
const (
	MaxTitleLength = 60
	YearLength     = 4
)

// IndexPage is the body of the index page
type IndexPage struct {
	Movies []model.Movie
}

// EditPage is the body of the edit form
type EditPage struct {
	Movie model.Movie
}

func validateMovie(title, year string) error {
	if title == "" || year == "" {
		return model.ValidationError{
			Kind:   model.ValidationEmpty,
			Reason: "title and year are required",
		}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength || utf8.RuneCountInString(year) != YearLength {
		return model.ValidationError{
			Kind:   model.ValidationInvalid,
			Reason: "title must not exceed 60 characters and year must have exactly 4",
		}
	}
	return nil
}

// Index lists all movies. It is available without a session.
func (env *Env) Index(Request) Result {
	movies, err := env.Movies.List()
	if err != nil {
		return failure(err)
	}
	return Result{Body: IndexPage{Movies: movies}}
}

// CreateMovie adds a movie. Anonymous callers are sent back to the index
// without any notice.
func (env *Env) CreateMovie(req Request, title, year string) Result {
	id := env.identify(req)
	if g := Guard(id, DenySilent); g != Allowed {
		return denied(g)
	}
	if err := validateMovie(title, year); err != nil {
		res := redirect(PathIndex, NoticeInvalidInput)
		res.Err = err
		return res
	}
	m, err := env.Movies.Create(title, year)
	if err != nil {
		return failure(err)
	}
	log.WithFields(
		log.Fields{
			"user":  id.UserID,
			"movie": m.ID,
		},
	).Info("movie created")
	return redirect(PathIndex, NoticeItemCreated)
}

// EditMovie returns the edit form of a movie
func (env *Env) EditMovie(req Request, movieID uint) Result {
	if g := Guard(env.identify(req), DenyRedirect); g != Allowed {
		return denied(g)
	}
	m, err := env.Movies.Get(movieID)
	if err != nil {
		return failure(err)
	}
	return Result{Body: EditPage{Movie: *m}}
}

// UpdateMovie replaces title and year of a movie. Invalid input leaves the
// movie untouched and leads back to the edit form.
func (env *Env) UpdateMovie(req Request, movieID uint, title, year string) Result {
	id := env.identify(req)
	if g := Guard(id, DenyRedirect); g != Allowed {
		return denied(g)
	}
	if _, err := env.Movies.Get(movieID); err != nil {
		return failure(err)
	}
	if err := validateMovie(title, year); err != nil {
		res := redirect(EditPath(movieID), NoticeInvalidInput)
		res.Err = err
		return res
	}
	if _, err := env.Movies.Update(movieID, title, year); err != nil {
		return failure(err)
	}
	log.WithFields(
		log.Fields{
			"user":  id.UserID,
			"movie": movieID,
		},
	).Info("movie updated")
	return redirect(PathIndex, NoticeItemUpdated)
}

// DeleteMovie removes a movie
func (env *Env) DeleteMovie(req Request, movieID uint) Result {
	id := env.identify(req)
	if g := Guard(id, DenyRedirect); g != Allowed {
		return denied(g)
	}
	if err := env.Movies.Delete(movieID); err != nil {
		return failure(err)
	}
	log.WithFields(
		log.Fields{
			"user":  id.UserID,
			"movie": movieID,
		},
	).Info("movie deleted")
	return redirect(PathIndex, NoticeItemDeleted)
}
