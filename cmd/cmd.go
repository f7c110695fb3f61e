/*
	Wanderlog
	Copyright (c) 2013 Matthew Holt

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package wlcmd facilitates the command line interface (CLI)
// and implements the main().
package wlcmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/wanderlog/wanderlog/journal"
	"go.uber.org/zap"
)

func Main() {
	flag.Usage = func() { fmt.Fprintln(flag.CommandLine.Output(), commandLineHelp()) }
	flag.Parse()

	cfg, err := journal.LoadConfig(configFile)
	if err != nil {
		journal.Log.Fatal("failed loading config", zap.Error(err))
	}
	if err := journal.SetLogLevel(cfg.LogLevel); err != nil {
		journal.Log.Fatal("invalid log level", zap.Error(err))
	}

	if flag.NArg() == 0 {
		fmt.Println(commandLineHelp())
		os.Exit(2)
	}
	if err := checkFlagParsing(); err != nil {
		journal.Log.Fatal("possible syntax error detected", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	subCommand := flag.Arg(0)
	if err := runSubcommand(ctx, cfg, subCommand); err != nil {
		journal.Log.Fatal("subcommand failed",
			zap.String("subcommand", subCommand),
			zap.Error(err))
	}
}

// runSubcommand runs a standard (CLI-only) command or the
// registered pipeline with the given name.
func runSubcommand(ctx context.Context, cfg journal.Config, name string) error {
	switch name {
	case "help":
		fmt.Println(commandLineHelp())
		return nil
	case "version":
		fmt.Println(version())
		return nil
	}

	p, err := journal.GetPipeline(name)
	if err != nil {
		return fmt.Errorf("%w (try: wanderlog help)", err)
	}

	logger := journal.Log.With(zap.String("pipeline", p.Name))
	logger.Info("running")
	if err := p.Run(ctx, cfg); err != nil {
		return err
	}
	logger.Info("done")

	return nil
}

func commandLineHelp() string {
	var sb strings.Builder

	sb.WriteString(`Wanderlog converts travel data into the JSON documents behind a travel map:
geotagged photos, GPS tracks and satellite tracker positions.

Usage:
  wanderlog [-config file] <command>

Examples:
  $ wanderlog photos
  $ SPOT_FEED_URL=https://... wanderlog positions
  $ wanderlog -config trip.yml summary

Available Commands:`)

	for _, p := range journal.AllPipelines() {
		fmt.Fprintf(&sb, "\n  %-10s %s", p.Name, p.Description)
	}
	sb.WriteString("\n  help       Show this help")
	sb.WriteString("\n  version    Print the version")

	return sb.String()
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "wanderlog (devel)"
	}
	return "wanderlog " + info.Main.Version
}

// checkFlagParsing returns an error if it looks like the
// program may have been invoked with the flags in the
// wrong place. This intends to catch errors like running
// the program as:
// `wanderlog summary -config trip.yml`
// where it actually needs to be run as:
// `wanderlog -config trip.yml summary`
// in order to set the config variable properly.
func checkFlagParsing() error {
	if flag.NArg() > 1 {
		return errors.New("it looks like you intended to specify flags, but they came after the command; make sure flags go before positional arguments")
	}
	return nil
}

var configFile = journal.DefaultConfigFile

func init() {
	flag.StringVar(&configFile, "config", configFile, "Path to the YAML config file")
}
