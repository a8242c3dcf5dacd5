package less

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Request is a validated argument record. Values are string for string and
// enum parameters and []string for list parameters.
type Request map[string]any

// String returns a string parameter.
func (r Request) String(name string) (string, bool) {
	v, ok := r[name].(string)
	return v, ok
}

// Strings returns a list parameter, or nil when absent.
func (r Request) Strings(name string) []string {
	v, _ := r[name].([]string)
	return v
}

// Validate checks raw tool-call arguments against the operation's parameter
// schema and returns the typed request. Every problem is reported, not just
// the first. Arguments the schema does not declare are dropped.
func Validate(op Operation, args map[string]any) (Request, error) {
	req := Request{}
	var result *multierror.Error

	for _, p := range op.Params {
		raw, present := args[p.Name]
		if !present || raw == nil {
			if p.Required {
				result = multierror.Append(result, fmt.Errorf("%s parameter is required", p.Name))
			}
			continue
		}

		switch p.Kind {
		case KindStringList:
			items, err := toStrings(raw)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s parameter %w", p.Name, err))
				continue
			}
			if p.Required && len(items) == 0 {
				result = multierror.Append(result, fmt.Errorf("%s parameter must contain at least one item", p.Name))
				continue
			}
			req[p.Name] = items
		default:
			s, ok := raw.(string)
			if !ok {
				result = multierror.Append(result, fmt.Errorf("%s parameter must be a string, got %T", p.Name, raw))
				continue
			}
			if p.Kind == KindEnum && !slices.Contains(p.Enum, s) {
				result = multierror.Append(result, fmt.Errorf("%s parameter must be one of [%s], got %q", p.Name, strings.Join(p.Enum, ", "), s))
				continue
			}
			req[p.Name] = s
		}
	}

	if result != nil {
		result.ErrorFormat = func(errs []error) string {
			msgs := make([]string, len(errs))
			for i, err := range errs {
				msgs[i] = err.Error()
			}
			return fmt.Sprintf("invalid arguments for %s: %s", op.Name, strings.Join(msgs, "; "))
		}
	}
	return req, result.ErrorOrNil()
}

func toStrings(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d must be a string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be an array of strings, got %T", raw)
	}
}
