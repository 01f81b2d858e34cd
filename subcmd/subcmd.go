// Package subcmd wraps flag.FlagSet for the channels subcommands, adding
// usage output and an optional required positional argument.
package subcmd

import (
	"flag"
	"fmt"
	"os"
)

func New(name, doc string) *Subcommand {
	sc := &Subcommand{
		FlagSet: flag.NewFlagSet(name, flag.ContinueOnError),
	}
	sc.FlagSet.Usage = func() {
		argSuffix := ""
		if sc.arg != nil {
			argSuffix = fmt.Sprintf(" <%s>", sc.arg.name)
		}
		fmt.Fprintf(os.Stderr, "\n"+doc+"\n\n")
		fmt.Fprintf(os.Stderr, "  channels %s [flags]%s\n\n", name, argSuffix)
		fmt.Fprintf(os.Stderr, "flags:\n")
		sc.FlagSet.PrintDefaults()
		if sc.arg != nil {
			fmt.Fprintf(os.Stderr, "  <%s>\n", sc.arg.name)
			fmt.Fprintf(os.Stderr, "  \t%s\n", sc.arg.usage)
		}
	}
	return sc
}

type Subcommand struct {
	*flag.FlagSet
	arg *arg
}

type arg struct {
	name  string
	usage string
}

// RequireArg declares a required positional argument, shown in usage and
// enforced by Parse.
func (sc *Subcommand) RequireArg(name, usage string) *Subcommand {
	sc.arg = &arg{name, usage}
	return sc
}

// Parse parses flags and, when RequireArg was used, checks that exactly one
// positional argument remains.
func (sc *Subcommand) Parse(args []string) error {
	if err := sc.FlagSet.Parse(args); err != nil {
		return err
	}
	if sc.arg == nil {
		return nil
	}
	if sc.NArg() != 1 {
		sc.Usage()
		return fmt.Errorf("expected exactly one <%s> argument", sc.arg.name)
	}
	return nil
}

// Arg0 returns the required positional argument.
func (sc *Subcommand) Arg0() string {
	return sc.FlagSet.Arg(0)
}
