// this program collects youtube channel ids for artists, by way of their
// MusicBrainz url relations, and writes them to a csv file, a sqlite
// database, and/or a hosted supabase table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/purplemusic/channels/sigctx"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var usage = strings.TrimSpace(`
usage: channels $cmd
valid $cmd are 'run', 'check', 'summary'
for help: channels $cmd -help
`)

func run() error {
	ctx := sigctx.New()

	// secrets can live in a .env during development; missing is fine
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		return errors.New(usage)
	}
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "run":
		return runBatch(ctx, args)

	case "check":
		return check(ctx, args)

	case "summary":
		return summary(args)

	default:
		return fmt.Errorf("unknown cmd: '%s'\n%s", cmd, usage)
	}
}
