package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"estate/internal/app"
	"estate/internal/config"
	"estate/internal/core"

	"go.uber.org/zap"
)

const usage = `usage: estate [flags] <command> [command flags]

commands:
  serve                               serve /metrics and /debug endpoints, sweep the cache
  rebuild-index                       rebuild the parent→children indexes
  occupancy -uid U -property P        print the occupancy of a property
  get -uid U -kind K -id ID           print one resource
  list -uid U -kind K                 print every visible resource of a kind

kinds: properties, rooms, leases, tenants, logs, electrics
`

func main() {
	os.Exit(execute())
}

func execute() int {
	configPath := flag.String("config", "", "Path to YAML config file")
	backend := flag.String("backend", "", "Store backend override (memory, mongo, badger, redis)")
	logLevel := flag.String("log-level", "", "Log level override")
	debug := flag.Bool("debug", false, "Enable development logging")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *backend != "" {
		cfg.Store.Backend = *backend
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *debug {
		cfg.Log.Development = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := core.ConfigureLogger(cfg.Log.Development, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		core.Error("Failed to start", zap.Error(err))
		return 1
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			core.Error("Failed to close store", zap.Error(err))
		}
	}()

	if err := run(ctx, a, flag.Arg(0), flag.Args()[1:]); err != nil {
		core.Error("Command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, a *app.App, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	uid := fs.String("uid", "", "Caller uid")
	propertyID := fs.String("property", "", "Property ID")
	kind := fs.String("kind", "", "Resource kind")
	id := fs.String("id", "", "Resource ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch command {
	case "serve":
		return a.Run(ctx)

	case "rebuild-index":
		indexes, err := a.RebuildIndexes(ctx)
		if err != nil {
			return err
		}
		return printJSON(indexes)

	case "occupancy":
		records, err := a.Occupancy(ctx, *uid, *propertyID)
		if err != nil {
			return err
		}
		return printJSON(records)

	case "get":
		item, err := a.Lookup(ctx, *kind, *uid, *id)
		if err != nil {
			return err
		}
		return printJSON(item)

	case "list":
		items, err := a.List(ctx, *kind, *uid)
		if err != nil {
			return err
		}
		return printJSON(items)
	}

	return fmt.Errorf("unknown command %q", command)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
