package settings

import (
	"fmt"
	"strconv"
	"strings"
)

var booleanStrings = map[string]bool{
	"1": true, "on": true, "yes": true, "true": true,
	"0": false, "off": false, "no": false, "false": false, "": false,
}

// ValidateBool accepts the docutils boolean spellings.
func ValidateBool(raw string) (any, error) {
	b, ok := booleanStrings[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return nil, fmt.Errorf("unknown boolean value %q", raw)
	}
	return b, nil
}

// ValidateInt accepts any integer.
func ValidateInt(raw string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	return n, nil
}

// ValidateNonNegativeInt accepts integers >= 0.
func ValidateNonNegativeInt(raw string) (any, error) {
	v, err := ValidateInt(raw)
	if err != nil {
		return nil, err
	}
	if v.(int) < 0 {
		return nil, fmt.Errorf("%q is negative", raw)
	}
	return v, nil
}

// ValidateFloat accepts a decimal number.
func ValidateFloat(raw string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return f, nil
}

// ValidateCommaList splits a comma separated list, dropping empty entries.
func ValidateCommaList(raw string) (any, error) {
	return splitList(raw), nil
}

// ValidateChoice returns a validator accepting exactly one of choices.
func ValidateChoice(choices ...string) Validator {
	return func(raw string) (any, error) {
		v := strings.TrimSpace(raw)
		for _, c := range choices {
			if v == c {
				return v, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of %s", raw, strings.Join(choices, ", "))
	}
}

// ValidateRange returns an integer validator bounded to [minimum, maximum].
func ValidateRange(minimum, maximum int) Validator {
	return func(raw string) (any, error) {
		v, err := ValidateInt(raw)
		if err != nil {
			return nil, err
		}
		if n := v.(int); n < minimum || n > maximum {
			return nil, fmt.Errorf("%d is outside %d..%d", n, minimum, maximum)
		}
		return v, nil
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
