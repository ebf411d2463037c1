package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName               = "bool"
	booleanFlagTrueLiteral            = "true"
	booleanFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueErrorLabel = "invalid boolean value"
	flagPrefix                        = "--"
	flagValueDelimiter                = "="
	argumentTerminator                = "--"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"1":     true,
	"yes":   true,
	"on":    true,
	"false": false,
	"0":     false,
	"no":    false,
	"off":   false,
}

// parseBooleanLiteral reports the value of a user supplied literal and whether it was recognized.
func parseBooleanLiteral(input string) (bool, bool) {
	parsed, recognized := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(input))]
	return parsed, recognized
}

// literalBooleanValue is a pflag.Value accepting the literals of booleanFlagLiterals.
type literalBooleanValue struct {
	target  *bool
	flagKey string
}

func (value *literalBooleanValue) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		input = booleanFlagTrueLiteral
	}
	parsed, recognized := parseBooleanLiteral(input)
	if !recognized {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", booleanFlagInvalidValueErrorLabel, input, value.flagKey, booleanFlagAcceptedValuesListing)
	}
	*value.target = parsed
	return nil
}

func (value *literalBooleanValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *literalBooleanValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag adds --name, which alone means true and otherwise takes a literal.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&literalBooleanValue{target: target, flagKey: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// normalizeBooleanFlagArguments joins "--flag literal" into "--flag=literal" for every boolean
// flag of the command tree, since pflag treats the detached literal as a positional argument.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlags := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if joined, consumed := joinBooleanLiteral(booleanFlags, currentArgument, arguments[index+1:]); consumed {
			normalized = append(normalized, joined)
			index++
			continue
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func joinBooleanLiteral(booleanFlags map[string]struct{}, currentArgument string, remaining []string) (string, bool) {
	if !strings.HasPrefix(currentArgument, flagPrefix) || strings.Contains(currentArgument, flagValueDelimiter) || len(remaining) == 0 {
		return "", false
	}
	flagName := strings.TrimPrefix(currentArgument, flagPrefix)
	if _, exists := booleanFlags[flagName]; !exists {
		return "", false
	}
	nextArgument := remaining[0]
	if _, recognized := parseBooleanLiteral(nextArgument); !recognized {
		return "", false
	}
	return flagPrefix + flagName + flagValueDelimiter + nextArgument, true
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil {
		return
	}
	visit := func(flag *pflag.Flag) {
		if flag.Value != nil && flag.Value.Type() == booleanFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
