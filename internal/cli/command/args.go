package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// positional returns the command's positional arguments. urfave/cli stops
// parsing flags at the first positional argument, so flags written after
// it ("delete EMAIL --force") are applied here. Everything after "--" is
// positional.
func positional(c *cli.Context) ([]string, error) {
	rest := c.Args().Slice()
	var args []string
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "--" {
			args = append(args, rest[i+1:]...)
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			args = append(args, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		f := lookupFlag(c, name)
		if f == nil {
			return nil, fmt.Errorf("flag provided but not defined: -%s", name)
		}
		if _, ok := f.(*cli.BoolFlag); ok {
			if !hasValue {
				value = "true"
			}
		} else if !hasValue {
			if i+1 >= len(rest) {
				return nil, fmt.Errorf("flag needs an argument: -%s", name)
			}
			i++
			value = rest[i]
		}
		if err := c.Set(name, value); err != nil {
			return nil, fmt.Errorf("invalid value %q for flag -%s: %w", value, name, err)
		}
	}
	return args, nil
}

// firstArg returns the first positional argument, or "" when there is none.
func firstArg(c *cli.Context) (string, error) {
	args, err := positional(c)
	if err != nil || len(args) == 0 {
		return "", err
	}
	return args[0], nil
}

// lookupFlag finds name among the command's own flags, then the global ones.
func lookupFlag(c *cli.Context, name string) cli.Flag {
	var sets [][]cli.Flag
	if c.Command != nil {
		sets = append(sets, c.Command.Flags)
	}
	if c.App != nil {
		sets = append(sets, c.App.Flags)
	}
	for _, flags := range sets {
		for _, f := range flags {
			for _, n := range f.Names() {
				if n == name {
					return f
				}
			}
		}
	}
	return nil
}
