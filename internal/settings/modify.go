package settings

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/logfields"
)

// Mode selects how Modify treats targets missing from the base spec.
type Mode int

const (
	// Lenient ignores unknown targets and logs a warning.
	Lenient Mode = iota
	// Strict reports unknown targets as configuration errors.
	Strict
)

// Override replaces parts of an option record.
type Override struct {
	// Default replaces the default value when non-nil.
	Default any
	// Validator replaces the validator when non-nil.
	Validator Validator
	// HelpDefault rewrites the trailing "Default: ..." clause of the help text.
	HelpDefault string
}

var defaultClause = regexp.MustCompile(`(\bDefault: ).*$`)

// RewriteDefault substitutes the trailing default clause of help, leaving the
// rest of the text untouched. Help without such a clause is returned as is.
func RewriteDefault(help, replacement string) string {
	escaped := strings.ReplaceAll(replacement, "$", "$$")
	return defaultClause.ReplaceAllString(help, "${1}"+escaped)
}

// Modify derives a spec from base: options matching skip are removed entirely
// and options named in overrides get new defaults, validators or help text.
// Keys may be flags ("--slide-size") or destinations ("slide_size").
func Modify(base Spec, skip []string, overrides map[string]Override, mode Mode) (Spec, error) {
	var unknown []string
	for _, key := range skip {
		if _, ok := base.Lookup(key); !ok {
			unknown = append(unknown, key)
		}
	}
	for key := range overrides {
		if _, ok := base.Lookup(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		if mode == Strict {
			return Spec{}, errors.ConfigError(fmt.Sprintf("unknown option: %s", strings.Join(unknown, ", "))).
				WithContext("options", unknown).
				Build()
		}
		for _, key := range unknown {
			slog.Warn("Ignoring setting for unknown option", logfields.Option(key))
		}
	}

	out := Spec{Groups: make([]Group, 0, len(base.Groups))}
	for _, g := range base.Groups {
		ng := Group{Title: g.Title, Description: g.Description}
		for _, o := range g.Options {
			if skipped(o, skip) {
				continue
			}
			for key, ov := range overrides {
				if o.Matches(key) {
					o = apply(o, ov)
				}
			}
			ng.Options = append(ng.Options, o)
		}
		out.Groups = append(out.Groups, ng)
	}
	return out, nil
}

func skipped(o Option, skip []string) bool {
	for _, key := range skip {
		if o.Matches(key) {
			return true
		}
	}
	return false
}

func apply(o Option, ov Override) Option {
	if ov.Default != nil {
		o.Default = ov.Default
	}
	if ov.Validator != nil {
		o.Validator = ov.Validator
	}
	if ov.HelpDefault != "" {
		o.Help = RewriteDefault(o.Help, ov.HelpDefault)
	}
	// copy the flag slice so the base spec is never shared
	o.Flags = append([]string(nil), o.Flags...)
	return o
}

// WithDefaults applies user-supplied default values, as read from a config
// file, by converting each value to its flag form and running the option's
// validator. Unknown keys follow mode.
func WithDefaults(base Spec, defaults map[string]any, mode Mode) (Spec, error) {
	overrides := make(map[string]Override, len(defaults))
	var unknown []string
	for key, raw := range defaults {
		o, ok := base.Lookup(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		v, err := convert(o, raw)
		if err != nil {
			return Spec{}, errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("invalid default for %s", o.Name())).
				WithContext("option", o.Name()).
				Build()
		}
		overrides[key] = Override{Default: v, HelpDefault: quoteDefault(v)}
	}
	if len(unknown) > 0 && mode == Strict {
		return Spec{}, errors.ConfigError(fmt.Sprintf("unknown option: %s", strings.Join(unknown, ", "))).
			WithContext("options", unknown).
			Build()
	}
	for _, key := range unknown {
		slog.Warn("Ignoring default for unknown option", logfields.Option(key))
	}
	return Modify(base, nil, overrides, mode)
}

func convert(o Option, raw any) (any, error) {
	var s string
	switch x := raw.(type) {
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, fmt.Sprint(p))
		}
		s = strings.Join(parts, ",")
	case []string:
		s = strings.Join(x, ",")
	case nil:
		return nil, fmt.Errorf("empty value")
	default:
		s = fmt.Sprint(x)
	}
	if o.Action != ActionStore {
		return ValidateBool(s)
	}
	if o.Validator == nil {
		return s, nil
	}
	return o.Validator(s)
}

func quoteDefault(v any) string {
	switch x := v.(type) {
	case []string:
		return fmt.Sprintf("%q.", strings.Join(x, ","))
	case string:
		return fmt.Sprintf("%q.", x)
	default:
		return fmt.Sprintf("%v.", x)
	}
}
