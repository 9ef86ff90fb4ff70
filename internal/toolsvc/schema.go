package toolsvc

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/hunter-mcp/hunter-mcp-go/internal/mcp"
)

// fieldKind is the declared primitive type of an argument field.
type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
)

func (k fieldKind) String() string {
	if k == kindNumber {
		return "number"
	}
	return "string"
}

// field is one declared argument.
type field struct {
	name string
	kind fieldKind
}

// argSpec is a declarative description of a tool's argument constraints,
// interpreted by one generic validator. required fields must be present
// with the declared type; optional fields may be absent but reject a
// present value of the wrong type; anyOf names a group of which at least
// one member must be present.
type argSpec struct {
	required []field
	optional []field
	anyOf    []string
}

// validate checks an untyped argument bag against the spec. It is pure: no
// I/O, no mutation of the bag.
func (s argSpec) validate(args map[string]any) error {
	if args == nil {
		return fmt.Errorf("arguments must be an object")
	}
	for _, f := range s.required {
		v, ok := args[f.name]
		if !ok {
			return fmt.Errorf("missing required field %q", f.name)
		}
		if !f.kind.matches(v) {
			return fmt.Errorf("field %q must be a %s", f.name, f.kind)
		}
	}
	for _, f := range s.optional {
		v, ok := args[f.name]
		if !ok {
			continue
		}
		if !f.kind.matches(v) {
			return fmt.Errorf("field %q must be a %s", f.name, f.kind)
		}
	}
	if len(s.anyOf) > 0 {
		found := false
		for _, name := range s.anyOf {
			if _, ok := args[name]; ok {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("at least one of %s is required", strings.Join(s.anyOf, ", "))
		}
	}
	return nil
}

func (k fieldKind) matches(v any) bool {
	switch k {
	case kindNumber:
		_, ok := v.(float64)
		return ok
	default:
		_, ok := v.(string)
		return ok
	}
}

// queryParams projects the declared fields of a validated bag into URL
// query parameters. Undeclared keys never reach the wire.
func (s argSpec) queryParams(args map[string]any) url.Values {
	params := url.Values{}
	for _, f := range append(append([]field{}, s.required...), s.optional...) {
		v, ok := args[f.name]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			params.Set(f.name, val)
		case float64:
			params.Set(f.name, strconv.FormatFloat(val, 'f', -1, 64))
		}
	}
	return params
}

// reflectInputSchema reflects a typed args struct into the simplified MCP
// input schema shape.
func reflectInputSchema[A any]() mcp.ToolInputSchema {
	r := &jsonschema.Reflector{
		DoNotReference: true, // inline defs
		ExpandedStruct: true, // put struct at root
	}
	s := r.Reflect(new(A))

	out := mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]mcp.SchemaProperty{},
	}
	if s == nil || s.Type != "object" {
		return out
	}
	if s.Properties != nil {
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			out.Properties[el.Key] = mcp.SchemaProperty{
				Type:        el.Value.Type,
				Description: el.Value.Description,
			}
		}
	}
	if len(s.Required) > 0 {
		out.Required = append(out.Required, s.Required...)
	}
	return out
}
