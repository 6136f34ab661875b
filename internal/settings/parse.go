package settings

import (
	stderrors "errors"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
)

// ErrHelp is returned by Parse when -h or --help is given.
var ErrHelp = stderrors.New("help requested")

// Parse reads args against the option records of s. It returns the option values (defaults
// included) and the remaining positional arguments. An unknown flag yields a
// validation error "no such option: <flag>"; an invalid value yields a
// configuration error naming the option.
func (s Spec) Parse(args []string) (Values, []string, error) {
	values := s.Defaults()
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			return values, positional, nil
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			positional = append(positional, arg)
			continue
		case arg == "-h" || arg == "--help":
			return values, positional, ErrHelp
		}

		flag, value, hasValue := splitFlag(arg)
		opt, ok := s.lookupFlag(flag)
		if !ok {
			return nil, nil, errors.ValidationError("no such option: " + flag).
				WithContext("option", flag).
				Build()
		}

		if !opt.takesValue() {
			if hasValue {
				return nil, nil, errors.ValidationError(fmt.Sprintf("%s option does not take a value", flag)).
					WithContext("option", flag).
					Build()
			}
			values[opt.Dest] = opt.Action == ActionStoreTrue
			clearOverridden(values, opt)
			continue
		}

		if !hasValue {
			if i+1 >= len(args) {
				return nil, nil, errors.ValidationError(fmt.Sprintf("%s option requires 1 argument", flag)).
					WithContext("option", flag).
					Build()
			}
			i++
			value = args[i]
		}
		v, err := validate(opt, value)
		if err != nil {
			return nil, nil, errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("invalid value for %s", opt.Name())).
				WithContext("option", opt.Name()).
				WithContext("value", value).
				Build()
		}
		values[opt.Dest] = v
		clearOverridden(values, opt)
	}
	return values, positional, nil
}

// splitFlag separates "--name=value" and "-xVALUE" forms.
func splitFlag(arg string) (flag, value string, hasValue bool) {
	if strings.HasPrefix(arg, "--") {
		if name, v, ok := strings.Cut(arg, "="); ok {
			return name, v, true
		}
		return arg, "", false
	}
	if len(arg) > 2 {
		v := strings.TrimPrefix(arg[2:], "=")
		return arg[:2], v, true
	}
	return arg, "", false
}

func (s Spec) lookupFlag(flag string) (Option, bool) {
	for _, o := range s.Options() {
		for _, f := range o.Flags {
			if f == flag {
				return o, true
			}
		}
	}
	return Option{}, false
}

func validate(o Option, raw string) (any, error) {
	if o.Validator == nil {
		return raw, nil
	}
	return o.Validator(raw)
}

func clearOverridden(values Values, o Option) {
	if o.Overrides != "" {
		values[o.Overrides] = nil
	}
}
