// Package routes holds the API route table and the operation registry the
// dispatcher resolves its handler names against.
package routes

import (
	_ "embed"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/application/category"
	"github.com/cinezone/cinezone/internal/application/history"
	"github.com/cinezone/cinezone/internal/application/movie"
	"github.com/cinezone/cinezone/internal/application/note"
	"github.com/cinezone/cinezone/internal/application/user"
	"github.com/cinezone/cinezone/internal/application/watchlist"
	"github.com/cinezone/cinezone/internal/interfaces/http/dispatch"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

//go:embed routes.yaml
var tableYAML []byte

// Services bundles the application services routes dispatch to.
type Services struct {
	Users      *user.Service
	Movies     *movie.Service
	Categories *category.Service
	Watchlist  *watchlist.Service
	Notes      *note.Service
	History    *history.Service
}

// Operations maps every handler name used by the route table to its service
// method.
func Operations(svc *Services) dispatch.Registry {
	return dispatch.Registry{
		"users.register":       dispatch.Op1(svc.Users.Register),
		"users.login":          dispatch.Op2(svc.Users.Login),
		"users.getProfile":     dispatch.Op1(svc.Users.GetProfile),
		"users.updateProfile":  dispatch.Op2(svc.Users.UpdateProfile),
		"users.updatePassword": dispatch.Op2(svc.Users.UpdatePassword),
		"users.list":           dispatch.Op1(svc.Users.List),
		"users.delete":         dispatch.Op1(svc.Users.Delete),

		"movies.list":         dispatch.Op1(svc.Movies.List),
		"movies.get":          dispatch.Op1(svc.Movies.Get),
		"movies.create":       dispatch.Op2(svc.Movies.Create),
		"movies.update":       dispatch.Op3(svc.Movies.Update),
		"movies.delete":       dispatch.Op1(svc.Movies.Delete),
		"movies.uploadPoster": dispatch.Op1(svc.Movies.UploadPoster),

		"categories.list":   dispatch.Op0(svc.Categories.List),
		"categories.get":    dispatch.Op1(svc.Categories.Get),
		"categories.create": dispatch.Op1(svc.Categories.Create),
		"categories.update": dispatch.Op2(svc.Categories.Update),
		"categories.delete": dispatch.Op1(svc.Categories.Delete),

		"watchlist.list":   dispatch.Op1(svc.Watchlist.List),
		"watchlist.add":    dispatch.Op2(svc.Watchlist.Add),
		"watchlist.remove": dispatch.Op2(svc.Watchlist.Remove),

		"notes.upsert":       dispatch.Op4(svc.Notes.Upsert),
		"notes.update":       dispatch.Op4(svc.Notes.Update),
		"notes.delete":       dispatch.Op2(svc.Notes.Delete),
		"notes.listForUser":  dispatch.Op1(svc.Notes.ListForUser),
		"notes.listForMovie": dispatch.Op1(svc.Notes.ListForMovie),

		"history.list": dispatch.Op2(svc.History.List),
	}
}

// Table parses the embedded route table.
func Table() (*dispatch.Table, error) {
	table, err := dispatch.LoadTable(tableYAML)
	if err != nil {
		return nil, fmt.Errorf("invalid route table: %w", err)
	}
	return table, nil
}

// Register mounts the route table on group.
func Register(group gin.IRoutes, svc *Services, mw dispatch.Middleware, log logger.Interface) error {
	table, err := Table()
	if err != nil {
		return err
	}
	return dispatch.NewBuilder(Operations(svc), mw, log).Register(group, table)
}
