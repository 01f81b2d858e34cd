package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/purplemusic/channels/config"
	"github.com/purplemusic/channels/db"
	"github.com/purplemusic/channels/subcmd"
)

// summary reports what the sqlite sink has accumulated so far.
func summary(args []string) error {
	sc := subcmd.New("summary", "print stored channel counts per country")
	configPath := sc.String("config", "", "path to channels.toml")
	if err := sc.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if cfg.Paths.Database == "" {
		return fmt.Errorf("no database configured; set paths.database in channels.toml")
	}

	conn, err := db.Open(cfg.Paths.Database)
	if err != nil {
		return err
	}
	defer conn.Close()

	counts, err := conn.CountByCountry()
	if err != nil {
		return err
	}
	total, err := conn.CountChannels()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Country", "Code", "Channels"})
	for _, c := range counts {
		name := c.CountryName
		if name == "" {
			name = "(unknown)"
		}
		t.AppendRow(table.Row{name, c.CountryCode, c.Channels})
	}
	t.AppendFooter(table.Row{"Total", "", total})
	t.Render()

	return nil
}
