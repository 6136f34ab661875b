// Package settings resolves writer options: option records grouped into a
// Spec, per-writer modification of a base Spec, command-line parsing and the
// typed Settings a translator reads.
package settings

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Action says what a flag does with its value.
type Action int

const (
	// ActionStore consumes a value and stores the validated result.
	ActionStore Action = iota
	// ActionStoreTrue stores true and takes no value.
	ActionStoreTrue
	// ActionStoreFalse stores false and takes no value.
	ActionStoreFalse
)

// Validator converts a raw flag value into a typed value.
type Validator func(raw string) (any, error)

// Option is one command-line option record.
type Option struct {
	Help    string
	Flags   []string
	Dest    string
	Metavar string
	Action  Action
	Default any
	// Validator converts the raw value; nil stores the string as given.
	Validator Validator
	// Overrides names another destination that is cleared when this option is given.
	Overrides string
}

// Name is the first long flag of the option.
func (o Option) Name() string {
	for _, f := range o.Flags {
		if strings.HasPrefix(f, "--") {
			return f
		}
	}
	if len(o.Flags) > 0 {
		return o.Flags[0]
	}
	return o.Dest
}

// Matches reports whether key is one of the option's flags or its destination.
func (o Option) Matches(key string) bool {
	return key == o.Dest || slices.Contains(o.Flags, key)
}

func (o Option) takesValue() bool {
	return o.Action == ActionStore
}

// Group is a titled, ordered set of options.
type Group struct {
	Title       string
	Description string
	Options     []Option
}

// Spec is an ordered list of option groups.
type Spec struct {
	Groups []Group
}

// Join concatenates specs, preserving order.
func Join(specs ...Spec) Spec {
	var out Spec
	for _, s := range specs {
		out.Groups = append(out.Groups, s.Groups...)
	}
	return out
}

// Options returns every option in order.
func (s Spec) Options() []Option {
	var out []Option
	for _, g := range s.Groups {
		out = append(out, g.Options...)
	}
	return out
}

// Lookup finds an option by flag or destination.
func (s Spec) Lookup(key string) (Option, bool) {
	for _, g := range s.Groups {
		for _, o := range g.Options {
			if o.Matches(key) {
				return o, true
			}
		}
	}
	return Option{}, false
}

// Defaults returns the default value of every destination. A later option with
// the same destination and a non-nil default wins.
func (s Spec) Defaults() Values {
	v := make(Values)
	for _, o := range s.Options() {
		if o.Default != nil {
			v[o.Dest] = o.Default
		} else if _, ok := v[o.Dest]; !ok {
			v[o.Dest] = nil
		}
	}
	return v
}

// Values maps option destinations to resolved values.
type Values map[string]any

// String returns a string value, formatting non-string values.
func (v Values) String(dest string) string {
	switch x := v[dest].(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	default:
		return fmt.Sprint(x)
	}
}

// Bool returns a boolean value; anything that is not a bool is false.
func (v Values) Bool(dest string) bool {
	b, _ := v[dest].(bool)
	return b
}

// Int returns an integer value, or zero.
func (v Values) Int(dest string) int {
	switch x := v[dest].(type) {
	case int:
		return x
	case float64:
		return int(x)
	default:
		return 0
	}
}

// Float returns a float value, or zero.
func (v Values) Float(dest string) float64 {
	switch x := v[dest].(type) {
	case float64:
		return x
	case int:
		return float64(x)
	default:
		return 0
	}
}

// List returns a list value. A plain string is split on commas.
func (v Values) List(dest string) []string {
	switch x := v[dest].(type) {
	case []string:
		return x
	case string:
		return splitList(x)
	default:
		return nil
	}
}

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	return maps.Clone(v)
}
