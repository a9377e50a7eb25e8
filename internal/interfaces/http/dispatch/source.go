package dispatch

import (
	"fmt"
	"strings"
)

// SourceKind says where an operation argument comes from.
type SourceKind int

const (
	SourceUser SourceKind = iota + 1
	SourceParam
	SourceBodyWhole
	SourceBodyField
	SourceQuery
	SourceFile
)

// ArgSource is one positional argument of an operation. Name is set for
// SourceParam and SourceBodyField.
type ArgSource struct {
	Kind SourceKind
	Name string
}

func FromUser() ArgSource                 { return ArgSource{Kind: SourceUser} }
func FromParam(name string) ArgSource     { return ArgSource{Kind: SourceParam, Name: name} }
func FromBodyWhole() ArgSource            { return ArgSource{Kind: SourceBodyWhole} }
func FromBodyField(name string) ArgSource { return ArgSource{Kind: SourceBodyField, Name: name} }
func FromQuery() ArgSource                { return ArgSource{Kind: SourceQuery} }
func FromFile() ArgSource                 { return ArgSource{Kind: SourceFile} }

func (a ArgSource) String() string {
	switch a.Kind {
	case SourceUser:
		return "user"
	case SourceParam:
		return "param:" + a.Name
	case SourceBodyWhole:
		return "body"
	case SourceBodyField:
		return "body:" + a.Name
	case SourceQuery:
		return "query"
	case SourceFile:
		return "file"
	default:
		return fmt.Sprintf("unknown(%d)", int(a.Kind))
	}
}

// ParseArgSource reads the textual form produced by ArgSource.String.
func ParseArgSource(s string) (ArgSource, error) {
	kind, name, hasName := strings.Cut(strings.TrimSpace(s), ":")
	name = strings.TrimSpace(name)
	if hasName && name == "" {
		return ArgSource{}, fmt.Errorf("argument source %q has an empty name", s)
	}

	switch kind {
	case "user":
		if !hasName {
			return FromUser(), nil
		}
	case "param":
		if hasName {
			return FromParam(name), nil
		}
	case "body":
		if hasName {
			return FromBodyField(name), nil
		}
		return FromBodyWhole(), nil
	case "query":
		if !hasName {
			return FromQuery(), nil
		}
	case "file":
		if !hasName {
			return FromFile(), nil
		}
	}
	return ArgSource{}, fmt.Errorf("unknown argument source %q", s)
}

// Sources returns the argument sources of d in call order. Explicit Args win;
// otherwise the flags are read in the fixed order user, params, body, query,
// file.
func (d Descriptor) Sources() ([]ArgSource, error) {
	if len(d.Args) > 0 {
		if d.hasFlags() {
			return nil, fmt.Errorf("args cannot be combined with use* flags")
		}
		sources := make([]ArgSource, 0, len(d.Args))
		for _, raw := range d.Args {
			src, err := ParseArgSource(raw)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		}
		return sources, nil
	}

	var sources []ArgSource
	if d.UseUser {
		sources = append(sources, FromUser())
	}
	for _, p := range d.UseParams {
		sources = append(sources, FromParam(p))
	}
	if d.UseBody.Whole {
		sources = append(sources, FromBodyWhole())
	}
	for _, f := range d.UseBody.Fields {
		sources = append(sources, FromBodyField(f))
	}
	if d.UseQuery {
		sources = append(sources, FromQuery())
	}
	if d.UseFile {
		sources = append(sources, FromFile())
	}
	return sources, nil
}

func (d Descriptor) hasFlags() bool {
	return d.UseUser || len(d.UseParams) > 0 || !d.UseBody.IsZero() || d.UseQuery || d.UseFile
}
