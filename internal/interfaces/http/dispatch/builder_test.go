package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinezone/cinezone/internal/infrastructure/storage"
	"github.com/cinezone/cinezone/internal/shared/authorization"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	trace []string
	mw    Middleware
}

func newHarness() *harness {
	h := &harness{}
	h.mw = Middleware{
		Authenticate: func(c *gin.Context) {
			h.trace = append(h.trace, "auth")
			c.Set(constants.ContextKeyUserID, uint(7))
			c.Next()
		},
		RequireTier: func(tier authorization.Tier) gin.HandlerFunc {
			return func(c *gin.Context) {
				h.trace = append(h.trace, "tier:"+tier.String())
				c.Next()
			}
		},
		Upload: func(field string) gin.HandlerFunc {
			return func(c *gin.Context) {
				h.trace = append(h.trace, "upload:"+field)
				c.Set(constants.ContextKeyUpload, &storage.UploadedFile{Filename: "p.png", URL: "/uploads/p.png"})
				c.Next()
			}
		},
		Validators: map[string]gin.HandlerFunc{
			"noteId": func(c *gin.Context) {
				h.trace = append(h.trace, "validate:noteId")
				c.Next()
			},
			"createNote": func(c *gin.Context) {
				h.trace = append(h.trace, "validate:createNote")
				c.Next()
			},
		},
	}
	return h
}

func (h *harness) engine(t *testing.T, ops Registry, table *Table) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 && !c.Writer.Written() {
			utils.ErrorResponseWithError(c, c.Errors.Last().Err)
		}
	})
	require.NoError(t, NewBuilder(ops, h.mw, logger.NewNop()).Register(r, table))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestBuilder_PositionalArguments(t *testing.T) {
	h := newHarness()

	type call struct {
		user    uint
		id      uint
		rating  float64
		comment string
	}
	var got *call
	ops := Registry{
		"notes.update": Op4(func(_ context.Context, user, id uint, rating float64, comment string) (gin.H, error) {
			got = &call{user, id, rating, comment}
			return gin.H{"ok": true}, nil
		}),
	}
	table := &Table{Protected: []Descriptor{{
		Method:    http.MethodPut,
		Path:      "/notes/:id",
		Handler:   "notes.update",
		UseUser:   true,
		UseParams: []string{"id"},
		UseBody:   BodySpec{Fields: []string{"rating", "comment"}},
	}}}

	w := do(h.engine(t, ops, table), http.MethodPut, "/notes/3", `{"rating":4,"comment":"x"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, got)
	assert.Equal(t, call{user: 7, id: 3, rating: 4, comment: "x"}, *got)
	assert.Equal(t, true, decode(t, w)["ok"])
}

func TestBuilder_MissingBodyFieldIsZero(t *testing.T) {
	h := newHarness()

	var comment *string
	called := false
	ops := Registry{
		"notes.upsert": Op4(func(_ context.Context, _ uint, _ uint, _ float64, c *string) (gin.H, error) {
			called, comment = true, c
			return gin.H{}, nil
		}),
	}
	table := &Table{Protected: []Descriptor{{
		Method:     http.MethodPost,
		Path:       "/notes",
		Handler:    "notes.upsert",
		UseUser:    true,
		UseBody:    BodySpec{Fields: []string{"movieId", "rating", "comment"}},
		StatusCode: http.StatusCreated,
	}}}

	w := do(h.engine(t, ops, table), http.MethodPost, "/notes", `{"movieId":"5","rating":"4.5"}`)

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, called)
	assert.Nil(t, comment)
}

func TestBuilder_ChainOrder(t *testing.T) {
	h := newHarness()

	ops := Registry{
		"movies.update": Op3(func(_ context.Context, id uint, body map[string]any, file *storage.UploadedFile) (gin.H, error) {
			h.trace = append(h.trace, "handler")
			return gin.H{"id": id, "title": body["title"], "poster": file.URL}, nil
		}),
	}
	table := &Table{Admin: []Descriptor{{
		Method:      http.MethodPut,
		Path:        "/movies/:id",
		Handler:     "movies.update",
		UseParams:   []string{"id"},
		UseBody:     BodySpec{Whole: true},
		UseFile:     true,
		UseUpload:   true,
		UploadField: "poster",
		Validation:  []string{"noteId", "createNote"},
	}}}

	w := do(h.engine(t, ops, table), http.MethodPut, "/movies/9", `{"title":"Alien"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{
		"auth",
		"tier:admin",
		"upload:poster",
		"validate:noteId",
		"validate:createNote",
		"handler",
	}, h.trace)

	out := decode(t, w)
	assert.Equal(t, float64(9), out["id"])
	assert.Equal(t, "Alien", out["title"])
	assert.Equal(t, "/uploads/p.png", out["poster"])
}

func TestBuilder_PublicRouteSkipsAuth(t *testing.T) {
	h := newHarness()

	ops := Registry{
		"categories.list": Op0(func(context.Context) ([]string, error) {
			return []string{"Drama"}, nil
		}),
	}
	table := &Table{Public: []Descriptor{{Method: http.MethodGet, Path: "/categories", Handler: "categories.list"}}}

	w := do(h.engine(t, ops, table), http.MethodGet, "/categories", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Drama"]`, w.Body.String())
	assert.Empty(t, h.trace)
}

func TestBuilder_QueryBinding(t *testing.T) {
	type listQuery struct {
		Page   int    `form:"page"`
		Search string `form:"search"`
	}

	h := newHarness()
	var gotQuery listQuery
	var gotValues url.Values
	ops := Registry{
		"movies.list": Op1(func(_ context.Context, q listQuery) (gin.H, error) {
			gotQuery = q
			return gin.H{}, nil
		}),
		"movies.raw": Op1(func(_ context.Context, v url.Values) (gin.H, error) {
			gotValues = v
			return gin.H{}, nil
		}),
	}
	table := &Table{Public: []Descriptor{
		{Method: http.MethodGet, Path: "/movies", Handler: "movies.list", UseQuery: true},
		{Method: http.MethodGet, Path: "/raw", Handler: "movies.raw", UseQuery: true},
	}}
	r := h.engine(t, ops, table)

	w := do(r, http.MethodGet, "/movies?page=2&search=star", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, listQuery{Page: 2, Search: "star"}, gotQuery)

	w = do(r, http.MethodGet, "/raw?a=1&a=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"1", "2"}, gotValues["a"])

	w = do(r, http.MethodGet, "/movies?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuilder_ErrorsReachErrorHandler(t *testing.T) {
	h := newHarness()

	ops := Registry{
		"movies.get": Op1(func(_ context.Context, id uint) (gin.H, error) {
			return nil, errors.NewNotFoundError("Movie not found")
		}),
		"movies.boom": Op0(func(context.Context) (gin.H, error) {
			return nil, assert.AnError
		}),
	}
	table := &Table{Public: []Descriptor{
		{Method: http.MethodGet, Path: "/movies/:id", Handler: "movies.get", UseParams: []string{"id"}},
		{Method: http.MethodGet, Path: "/boom", Handler: "movies.boom"},
	}}
	r := h.engine(t, ops, table)

	w := do(r, http.MethodGet, "/movies/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	errInfo := decode(t, w)["error"].(map[string]any)
	assert.Equal(t, "Movie not found", errInfo["message"])

	w = do(r, http.MethodGet, "/movies/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestBuilder_InvalidJSONBody(t *testing.T) {
	h := newHarness()
	ops := Registry{
		"categories.create": Op1(func(_ context.Context, body map[string]any) (gin.H, error) {
			return gin.H{}, nil
		}),
	}
	table := &Table{Public: []Descriptor{{Method: http.MethodPost, Path: "/categories", Handler: "categories.create", UseBody: BodySpec{Whole: true}}}}

	w := do(h.engine(t, ops, table), http.MethodPost, "/categories", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuilder_Chain_Rejects(t *testing.T) {
	h := newHarness()
	ops := Registry{
		"notes.delete": Op2(func(_ context.Context, user, id uint) (gin.H, error) { return gin.H{}, nil }),
		"notes.list":   Op1(func(_ context.Context, user uint) (gin.H, error) { return gin.H{}, nil }),
	}
	b := NewBuilder(ops, h.mw, logger.NewNop())

	tests := map[string]Descriptor{
		"unknown operation": {Method: http.MethodGet, Path: "/x", Handler: "notes.nope"},
		"arity mismatch":    {Method: http.MethodGet, Path: "/notes", Handler: "notes.delete", UseUser: true},
		"missing path param": {
			Method: http.MethodDelete, Path: "/notes", Handler: "notes.delete",
			UseUser: true, UseParams: []string{"id"},
		},
		"unknown validation": {
			Method: http.MethodGet, Path: "/notes", Handler: "notes.list",
			UseUser: true, Validation: []string{"nope"},
		},
		"type mismatch": {
			Method: http.MethodGet, Path: "/notes", Handler: "notes.list",
			UseFile: true,
		},
	}
	for name, d := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := b.Chain(authorization.TierAuthenticated, d)
			assert.Error(t, err)
		})
	}

	_, err := b.Chain(authorization.TierAuthenticated, Descriptor{
		Method: http.MethodDelete, Path: "/notes/:id", Handler: "notes.delete",
		UseUser: true, UseParams: []string{"id"},
	})
	assert.NoError(t, err)
}

func TestBuilder_UserRequired(t *testing.T) {
	h := newHarness()
	ops := Registry{
		"notes.list": Op1(func(_ context.Context, user uint) (gin.H, error) { return gin.H{}, nil }),
	}
	table := &Table{Public: []Descriptor{{Method: http.MethodGet, Path: "/notes", Handler: "notes.list", UseUser: true}}}

	w := do(h.engine(t, ops, table), http.MethodGet, "/notes", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegistry_Names(t *testing.T) {
	noop := Op0(func(context.Context) (gin.H, error) { return nil, nil })
	r := Registry{"b.x": noop, "a.y": noop}
	assert.Equal(t, []string{"a.y", "b.x"}, r.Names())
}
