package dispatch

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/infrastructure/storage"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/utils/jsonutil"
)

const maxFormMemory = 8 << 20

// Request is everything an operation can draw arguments from.
type Request struct {
	UserID  uint
	HasUser bool
	Params  map[string]string
	Body    jsonutil.Object
	Query   url.Values
	File    *storage.UploadedFile
}

// NewRequest collects the argument sources of the current gin request.
func NewRequest(c *gin.Context) (*Request, error) {
	body, err := Body(c)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Params: make(map[string]string, len(c.Params)),
		Body:   body,
		Query:  c.Request.URL.Query(),
	}
	for _, p := range c.Params {
		req.Params[p.Key] = p.Value
	}
	if id, ok := c.Get(constants.ContextKeyUserID); ok {
		if uid, ok := id.(uint); ok {
			req.UserID, req.HasUser = uid, true
		}
	}
	if f, ok := c.Get(constants.ContextKeyUpload); ok {
		req.File, _ = f.(*storage.UploadedFile)
	}
	return req, nil
}

// Body parses the request body once and caches it on the context so that
// validators and the terminal handler see the same object. JSON bodies are
// decoded as objects; form and multipart bodies become string fields.
func Body(c *gin.Context) (jsonutil.Object, error) {
	if cached, ok := c.Get(constants.ContextKeyBody); ok {
		if obj, ok := cached.(jsonutil.Object); ok {
			return obj, nil
		}
	}

	obj, err := readBody(c)
	if err != nil {
		return nil, err
	}
	c.Set(constants.ContextKeyBody, obj)
	return obj, nil
}

func readBody(c *gin.Context) (jsonutil.Object, error) {
	if c.Request.Body == nil || c.Request.Method == http.MethodGet {
		return jsonutil.Object{}, nil
	}

	mediaType, _, _ := mime.ParseMediaType(c.GetHeader(constants.HeaderContentType))
	switch {
	case mediaType == constants.ContentTypeMultipart:
		if c.Request.MultipartForm == nil {
			if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
				return nil, errors.NewBadRequestError("Invalid multipart body", err.Error())
			}
		}
		return jsonutil.FromValues(c.Request.MultipartForm.Value), nil
	case mediaType == "application/x-www-form-urlencoded":
		if err := c.Request.ParseForm(); err != nil {
			return nil, errors.NewBadRequestError("Invalid form body", err.Error())
		}
		return jsonutil.FromValues(c.Request.PostForm), nil
	case mediaType == "" || mediaType == constants.ContentTypeJSON || strings.HasSuffix(mediaType, "+json"):
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, errors.NewBadRequestError("Failed to read request body")
		}
		obj, err := jsonutil.ParseObject(raw)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid JSON body", err.Error())
		}
		return obj, nil
	default:
		return jsonutil.Object{}, nil
	}
}
