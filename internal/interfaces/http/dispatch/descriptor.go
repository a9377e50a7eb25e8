// Package dispatch turns a declarative route table into gin handlers that
// call application service operations with arguments taken from the request.
package dispatch

import (
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cinezone/cinezone/internal/shared/authorization"
)

const defaultUploadField = "file"

// Descriptor declares one route: where it lives, which operation it calls and
// how the operation's arguments are read from the request.
type Descriptor struct {
	Method  string `yaml:"method"`
	Path    string `yaml:"path"`
	Handler string `yaml:"handler"`

	// Args lists argument sources explicitly ("user", "param:id", "body",
	// "body:rating", "query", "file"). When empty the use* flags apply.
	Args []string `yaml:"args,omitempty"`

	UseUser   bool     `yaml:"useUser,omitempty"`
	UseParams []string `yaml:"useParams,omitempty"`
	UseBody   BodySpec `yaml:"useBody,omitempty"`
	UseQuery  bool     `yaml:"useQuery,omitempty"`
	UseFile   bool     `yaml:"useFile,omitempty"`

	UseUpload   bool     `yaml:"useUpload,omitempty"`
	UploadField string   `yaml:"uploadField,omitempty"`
	Validation  []string `yaml:"validation,omitempty"`
	StatusCode  int      `yaml:"statusCode,omitempty"`
}

// BodySpec is either `true` (pass the whole body) or a list of field names
// passed one argument each.
type BodySpec struct {
	Whole  bool
	Fields []string
}

func (b BodySpec) IsZero() bool {
	return !b.Whole && len(b.Fields) == 0
}

func (b *BodySpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var whole bool
		if err := node.Decode(&whole); err != nil {
			return fmt.Errorf("useBody must be a boolean or a list of fields: %w", err)
		}
		*b = BodySpec{Whole: whole}
	case yaml.SequenceNode:
		var fields []string
		if err := node.Decode(&fields); err != nil {
			return fmt.Errorf("useBody must be a boolean or a list of fields: %w", err)
		}
		*b = BodySpec{Fields: fields}
	default:
		return fmt.Errorf("useBody must be a boolean or a list of fields")
	}
	return nil
}

func (b BodySpec) MarshalYAML() (any, error) {
	if len(b.Fields) > 0 {
		return b.Fields, nil
	}
	return b.Whole, nil
}

// Status returns the success status code, 200 unless the descriptor says otherwise.
func (d Descriptor) Status() int {
	if d.StatusCode == 0 {
		return http.StatusOK
	}
	return d.StatusCode
}

func (d Descriptor) Field() string {
	if d.UploadField == "" {
		return defaultUploadField
	}
	return d.UploadField
}

func (d Descriptor) String() string {
	return strings.ToUpper(d.Method) + " " + d.Path
}

// Table groups descriptors by access tier.
type Table struct {
	Public    []Descriptor `yaml:"public"`
	Protected []Descriptor `yaml:"protected"`
	Admin     []Descriptor `yaml:"admin"`
}

// TierGroup is the descriptors of one tier.
type TierGroup struct {
	Tier        authorization.Tier
	Descriptors []Descriptor
}

// Groups returns the tiers in registration order.
func (t *Table) Groups() []TierGroup {
	return []TierGroup{
		{Tier: authorization.TierPublic, Descriptors: t.Public},
		{Tier: authorization.TierAuthenticated, Descriptors: t.Protected},
		{Tier: authorization.TierAdmin, Descriptors: t.Admin},
	}
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// LoadTable parses a YAML route table and checks every descriptor.
func LoadTable(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse route table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

// Validate checks methods, paths, handler names and argument sources, and
// rejects a method/path pair declared twice.
func (t *Table) Validate() error {
	seen := make(map[string]bool)
	for _, group := range t.Groups() {
		for i := range group.Descriptors {
			d := &group.Descriptors[i]
			d.Method = strings.ToUpper(strings.TrimSpace(d.Method))
			if !allowedMethods[d.Method] {
				return fmt.Errorf("route %s: unsupported method %q", d, d.Method)
			}
			if !strings.HasPrefix(d.Path, "/") {
				return fmt.Errorf("route %s: path must start with /", d)
			}
			if _, _, err := SplitHandler(d.Handler); err != nil {
				return fmt.Errorf("route %s: %w", d, err)
			}
			if _, err := d.Sources(); err != nil {
				return fmt.Errorf("route %s: %w", d, err)
			}
			if d.StatusCode != 0 && (d.StatusCode < 200 || d.StatusCode > 299) {
				return fmt.Errorf("route %s: statusCode must be a 2xx code", d)
			}
			key := d.String()
			if seen[key] {
				return fmt.Errorf("route %s declared twice", d)
			}
			seen[key] = true
		}
	}
	return nil
}

// SplitHandler splits "service.method".
func SplitHandler(handler string) (service, method string, err error) {
	service, method, ok := strings.Cut(handler, ".")
	if !ok || service == "" || method == "" || strings.Contains(method, ".") {
		return "", "", fmt.Errorf("handler %q must look like service.method", handler)
	}
	return service, method, nil
}
