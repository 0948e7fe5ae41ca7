package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlags binds flags to viper configuration keys. Unknown flag names are
// skipped so commands can share one binding table.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for flagName, configKey := range bindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(configKey, flag); err != nil {
			return fmt.Errorf("binding --%s to %s: %w", flagName, configKey, err)
		}
	}
	return nil
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(flags *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidateChoice returns a validator accepting only the given values,
// case-insensitively, and suggesting the closest one otherwise.
func ValidateChoice(allowed ...string) func(string) error {
	return func(val string) error {
		lower := strings.ToLower(val)
		for _, a := range allowed {
			if lower == a {
				return nil
			}
		}
		if s := suggest(lower, allowed); s != "" {
			return fmt.Errorf("invalid value %q, did you mean %q? (valid: %s)", val, s, strings.Join(allowed, ", "))
		}
		return fmt.Errorf("invalid value %q (valid: %s)", val, strings.Join(allowed, ", "))
	}
}

// suggest returns the allowed value sharing the longest prefix with val.
func suggest(val string, allowed []string) string {
	best, bestLen := "", 0
	for _, a := range allowed {
		n := 0
		for n < len(val) && n < len(a) && val[n] == a[n] {
			n++
		}
		if n > bestLen {
			best, bestLen = a, n
		}
	}
	return best
}
