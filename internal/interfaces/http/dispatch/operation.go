package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	json "github.com/goccy/go-json"

	"github.com/cinezone/cinezone/internal/infrastructure/storage"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/utils/jsonutil"
)

// Operation is a service method adapted to positional argument sources.
type Operation interface {
	Arity() int
	// Check reports, before any request is served, whether each source can
	// feed the parameter at its position.
	Check(sources []ArgSource) error
	Invoke(ctx context.Context, req *Request, sources []ArgSource) (any, error)
}

type op0[R any] struct {
	fn func(context.Context) (R, error)
}

// Op0 adapts a method taking only a context.
func Op0[R any](fn func(context.Context) (R, error)) Operation {
	return op0[R]{fn: fn}
}

func (o op0[R]) Arity() int { return 0 }

func (o op0[R]) Check(sources []ArgSource) error {
	return checkArity(0, sources)
}

func (o op0[R]) Invoke(ctx context.Context, _ *Request, _ []ArgSource) (any, error) {
	return o.fn(ctx)
}

type op1[A, R any] struct {
	fn func(context.Context, A) (R, error)
}

func Op1[A, R any](fn func(context.Context, A) (R, error)) Operation {
	return op1[A, R]{fn: fn}
}

func (o op1[A, R]) Arity() int { return 1 }

func (o op1[A, R]) Check(sources []ArgSource) error {
	if err := checkArity(1, sources); err != nil {
		return err
	}
	return checkParam[A](0, sources[0])
}

func (o op1[A, R]) Invoke(ctx context.Context, req *Request, sources []ArgSource) (any, error) {
	a, err := bind[A](req, sources[0])
	if err != nil {
		return nil, err
	}
	return o.fn(ctx, a)
}

type op2[A, B, R any] struct {
	fn func(context.Context, A, B) (R, error)
}

func Op2[A, B, R any](fn func(context.Context, A, B) (R, error)) Operation {
	return op2[A, B, R]{fn: fn}
}

func (o op2[A, B, R]) Arity() int { return 2 }

func (o op2[A, B, R]) Check(sources []ArgSource) error {
	if err := checkArity(2, sources); err != nil {
		return err
	}
	return firstErr(
		checkParam[A](0, sources[0]),
		checkParam[B](1, sources[1]),
	)
}

func (o op2[A, B, R]) Invoke(ctx context.Context, req *Request, sources []ArgSource) (any, error) {
	a, err := bind[A](req, sources[0])
	if err != nil {
		return nil, err
	}
	b, err := bind[B](req, sources[1])
	if err != nil {
		return nil, err
	}
	return o.fn(ctx, a, b)
}

type op3[A, B, C, R any] struct {
	fn func(context.Context, A, B, C) (R, error)
}

func Op3[A, B, C, R any](fn func(context.Context, A, B, C) (R, error)) Operation {
	return op3[A, B, C, R]{fn: fn}
}

func (o op3[A, B, C, R]) Arity() int { return 3 }

func (o op3[A, B, C, R]) Check(sources []ArgSource) error {
	if err := checkArity(3, sources); err != nil {
		return err
	}
	return firstErr(
		checkParam[A](0, sources[0]),
		checkParam[B](1, sources[1]),
		checkParam[C](2, sources[2]),
	)
}

func (o op3[A, B, C, R]) Invoke(ctx context.Context, req *Request, sources []ArgSource) (any, error) {
	a, err := bind[A](req, sources[0])
	if err != nil {
		return nil, err
	}
	b, err := bind[B](req, sources[1])
	if err != nil {
		return nil, err
	}
	c, err := bind[C](req, sources[2])
	if err != nil {
		return nil, err
	}
	return o.fn(ctx, a, b, c)
}

type op4[A, B, C, D, R any] struct {
	fn func(context.Context, A, B, C, D) (R, error)
}

func Op4[A, B, C, D, R any](fn func(context.Context, A, B, C, D) (R, error)) Operation {
	return op4[A, B, C, D, R]{fn: fn}
}

func (o op4[A, B, C, D, R]) Arity() int { return 4 }

func (o op4[A, B, C, D, R]) Check(sources []ArgSource) error {
	if err := checkArity(4, sources); err != nil {
		return err
	}
	return firstErr(
		checkParam[A](0, sources[0]),
		checkParam[B](1, sources[1]),
		checkParam[C](2, sources[2]),
		checkParam[D](3, sources[3]),
	)
}

func (o op4[A, B, C, D, R]) Invoke(ctx context.Context, req *Request, sources []ArgSource) (any, error) {
	a, err := bind[A](req, sources[0])
	if err != nil {
		return nil, err
	}
	b, err := bind[B](req, sources[1])
	if err != nil {
		return nil, err
	}
	c, err := bind[C](req, sources[2])
	if err != nil {
		return nil, err
	}
	d, err := bind[D](req, sources[3])
	if err != nil {
		return nil, err
	}
	return o.fn(ctx, a, b, c, d)
}

type op5[A, B, C, D, E, R any] struct {
	fn func(context.Context, A, B, C, D, E) (R, error)
}

func Op5[A, B, C, D, E, R any](fn func(context.Context, A, B, C, D, E) (R, error)) Operation {
	return op5[A, B, C, D, E, R]{fn: fn}
}

func (o op5[A, B, C, D, E, R]) Arity() int { return 5 }

func (o op5[A, B, C, D, E, R]) Check(sources []ArgSource) error {
	if err := checkArity(5, sources); err != nil {
		return err
	}
	return firstErr(
		checkParam[A](0, sources[0]),
		checkParam[B](1, sources[1]),
		checkParam[C](2, sources[2]),
		checkParam[D](3, sources[3]),
		checkParam[E](4, sources[4]),
	)
}

func (o op5[A, B, C, D, E, R]) Invoke(ctx context.Context, req *Request, sources []ArgSource) (any, error) {
	a, err := bind[A](req, sources[0])
	if err != nil {
		return nil, err
	}
	b, err := bind[B](req, sources[1])
	if err != nil {
		return nil, err
	}
	c, err := bind[C](req, sources[2])
	if err != nil {
		return nil, err
	}
	d, err := bind[D](req, sources[3])
	if err != nil {
		return nil, err
	}
	e, err := bind[E](req, sources[4])
	if err != nil {
		return nil, err
	}
	return o.fn(ctx, a, b, c, d, e)
}

var (
	userIDType = reflect.TypeFor[uint]()
	fileType   = reflect.TypeFor[*storage.UploadedFile]()
	valuesType = reflect.TypeFor[url.Values]()
)

func checkArity(want int, sources []ArgSource) error {
	if len(sources) != want {
		return fmt.Errorf("operation takes %d argument(s) but %d source(s) are declared", want, len(sources))
	}
	return nil
}

func checkParam[T any](pos int, src ArgSource) error {
	t := reflect.TypeFor[T]()
	ok := true
	switch src.Kind {
	case SourceUser:
		ok = t == userIDType
	case SourceFile:
		ok = t == fileType
	case SourceQuery:
		ok = t == valuesType || t.Kind() == reflect.Struct
	case SourceBodyWhole:
		ok = t.Kind() == reflect.Struct || (t.Kind() == reflect.Map && t.Key().Kind() == reflect.String)
	case SourceParam, SourceBodyField:
		ok = t.Kind() != reflect.Func && t.Kind() != reflect.Chan
	default:
		return fmt.Errorf("argument %d: unknown source %s", pos+1, src)
	}
	if !ok {
		return fmt.Errorf("argument %d: source %s cannot fill a %s parameter", pos+1, src, t)
	}
	return nil
}

// bind reads one argument. Input problems become ValidationErrors; a
// missing body field yields the zero value.
func bind[T any](req *Request, src ArgSource) (T, error) {
	var v T
	switch src.Kind {
	case SourceUser:
		if !req.HasUser {
			return v, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized)
		}
		return as[T](req.UserID)

	case SourceParam:
		raw, ok := req.Params[src.Name]
		if !ok {
			return v, fmt.Errorf("path parameter %q is not part of the route", src.Name)
		}
		if err := jsonutil.DecodeLenient(jsonutil.String(raw), &v); err != nil {
			return v, errors.NewValidationError(fmt.Sprintf("%s has an invalid value", src.Name))
		}

	case SourceBodyField:
		if err := jsonutil.DecodeLenient(req.Body[src.Name], &v); err != nil {
			return v, errors.NewValidationError(fmt.Sprintf("%s has an invalid value", src.Name))
		}

	case SourceBodyWhole:
		if err := decodeWhole(req.Body, &v); err != nil {
			return v, errors.NewValidationError(constants.ErrMsgValidationFailed, err.Error())
		}

	case SourceQuery:
		if values, ok := any(&v).(*url.Values); ok {
			*values = req.Query
			return v, nil
		}
		if err := binding.MapFormWithTag(&v, req.Query, "form"); err != nil {
			return v, errors.NewValidationError("Invalid query parameters", err.Error())
		}

	case SourceFile:
		return as[T](req.File)

	default:
		return v, fmt.Errorf("unknown argument source %s", src)
	}
	return v, nil
}

func as[T any](x any) (T, error) {
	v, ok := x.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cannot pass %T as %s", x, reflect.TypeFor[T]())
	}
	return v, nil
}

func decodeWhole(obj jsonutil.Object, dst any) error {
	if reflect.TypeOf(dst).Elem().Kind() == reflect.Struct {
		return jsonutil.DecodeFields(obj, dst)
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
