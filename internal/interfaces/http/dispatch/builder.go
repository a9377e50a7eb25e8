package dispatch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/shared/authorization"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/utils"
)

// Registry maps "service.method" handler names to operations.
type Registry map[string]Operation

// Names lists the registered handler names in order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Middleware supplies the handlers a descriptor chain is assembled from.
type Middleware struct {
	Authenticate gin.HandlerFunc
	RequireTier  func(tier authorization.Tier) gin.HandlerFunc
	Upload       func(field string) gin.HandlerFunc
	Validators   map[string]gin.HandlerFunc
}

type Builder struct {
	ops    Registry
	mw     Middleware
	logger logger.Interface
}

func NewBuilder(ops Registry, mw Middleware, log logger.Interface) *Builder {
	return &Builder{ops: ops, mw: mw, logger: log}
}

// Register mounts every descriptor of table on router. It fails on the first
// descriptor that names an unknown operation or validation set, or whose
// argument sources do not fit the operation.
func (b *Builder) Register(router gin.IRoutes, table *Table) error {
	count := 0
	for _, group := range table.Groups() {
		for _, d := range group.Descriptors {
			chain, err := b.Chain(group.Tier, d)
			if err != nil {
				return err
			}
			router.Handle(d.Method, d.Path, chain...)
			count++
			b.logger.Debugw("route registered", "route", d.String(), "tier", group.Tier, "handler", d.Handler)
		}
	}
	b.logger.Infow("routes registered", "count", count)
	return nil
}

// Chain builds [access(tier), upload?, validators..., terminal] for d.
func (b *Builder) Chain(tier authorization.Tier, d Descriptor) ([]gin.HandlerFunc, error) {
	op, ok := b.ops[d.Handler]
	if !ok {
		return nil, fmt.Errorf("route %s: unknown operation %q", d, d.Handler)
	}
	sources, err := d.Sources()
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", d, err)
	}
	if err := op.Check(sources); err != nil {
		return nil, fmt.Errorf("route %s (%s): %w", d, d.Handler, err)
	}
	for _, src := range sources {
		if src.Kind == SourceParam && !hasPathParam(d.Path, src.Name) {
			return nil, fmt.Errorf("route %s: path has no parameter %q", d, src.Name)
		}
	}

	chain, err := b.access(tier)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", d, err)
	}
	if d.UseUpload {
		if b.mw.Upload == nil {
			return nil, fmt.Errorf("route %s: uploads are not configured", d)
		}
		chain = append(chain, b.mw.Upload(d.Field()))
	}
	for _, name := range d.Validation {
		v, ok := b.mw.Validators[name]
		if !ok {
			return nil, fmt.Errorf("route %s: unknown validation set %q", d, name)
		}
		chain = append(chain, v)
	}
	return append(chain, Handler(op, sources, d.Status())), nil
}

func (b *Builder) access(tier authorization.Tier) ([]gin.HandlerFunc, error) {
	switch tier {
	case authorization.TierPublic:
		return nil, nil
	case authorization.TierAuthenticated:
		if b.mw.Authenticate == nil {
			return nil, fmt.Errorf("authentication middleware is not configured")
		}
		return []gin.HandlerFunc{b.mw.Authenticate}, nil
	case authorization.TierAdmin:
		if b.mw.Authenticate == nil || b.mw.RequireTier == nil {
			return nil, fmt.Errorf("admin access middleware is not configured")
		}
		return []gin.HandlerFunc{b.mw.Authenticate, b.mw.RequireTier(tier)}, nil
	default:
		return nil, fmt.Errorf("unknown tier %q", tier)
	}
}

// Handler is the terminal handler: it resolves the arguments, calls op and
// writes the result with status. Failures go to the error handler middleware.
func Handler(op Operation, sources []ArgSource, status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := NewRequest(c)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		result, err := op.Invoke(c.Request.Context(), req, sources)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		utils.ResultResponse(c, status, result)
	}
}

func hasPathParam(path, name string) bool {
	for _, segment := range strings.Split(path, "/") {
		if segment == ":"+name || segment == "*"+name {
			return true
		}
	}
	return false
}
