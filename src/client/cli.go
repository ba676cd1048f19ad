package client

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"
)

// Execute is the main entry point for the CLI
func Execute() error {
	// Global flags
	flagSet := flag.NewFlagSet("eventmap", flag.ContinueOnError)
	flagSet.Usage = func() {
		printUsage()
	}

	serverFlag := flagSet.String("server", "", "Event service URL (overrides config)")
	outputFlag := flagSet.String("output", "", "Output format: json, table, plain (overrides config)")
	tuiFlag := flagSet.Bool("tui", false, "Launch TUI mode")
	noColorFlag := flagSet.Bool("no-color", false, "Disable colored output")
	versionFlag := flagSet.Bool("version", false, "Show version information")
	helpFlag := flagSet.Bool("help", false, "Show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return NewUsageError(err.Error())
	}

	if *versionFlag {
		return printVersion()
	}
	if *helpFlag {
		printUsage()
		return nil
	}

	if err := EnsureDirs(); err != nil {
		return err
	}

	config, err := LoadConfig()
	if err != nil {
		return err
	}

	// Override config with flags
	if *serverFlag != "" {
		config.Server = *serverFlag
	}
	if *outputFlag != "" {
		config.Output = *outputFlag
	}
	if *noColorFlag {
		config.NoColor = true
	}

	// No arguments on a terminal drops into the TUI; otherwise show
	// usage so scripted callers get a deterministic exit.
	if flagSet.NArg() == 0 && !*tuiFlag {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return runTUI(config)
		}
		printUsage()
		return nil
	}

	if *tuiFlag {
		return runTUI(config)
	}

	args := flagSet.Args()
	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "config":
		return handleConfigCommand(commandArgs)
	case "version":
		return printVersion()
	case "events":
		return handleEventsCommand(config, commandArgs)
	case "search":
		return handleSearchCommand(config, commandArgs)
	case "create":
		return handleCreateCommand(config, commandArgs)
	case "export":
		return handleExportCommand(config, commandArgs)
	case "demo":
		return handleDemoCommand(config, commandArgs)
	case "tui":
		return runTUI(config)
	default:
		return NewUsageError(fmt.Sprintf("unknown command: %s", command))
	}
}

// printUsage prints the usage information
func printUsage() {
	fmt.Println("eventmap - Terminal client for the event map service")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  eventmap [flags] <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  events       List events for a day and category filter")
	fmt.Println("  search       Search events (free text or #category tokens)")
	fmt.Println("  create       Create a new event at a location")
	fmt.Println("  export       Export a day's events as an iCalendar file")
	fmt.Println("  demo         Show the bundled demo events")
	fmt.Println("  config       Manage configuration (init, show, get, set)")
	fmt.Println("  tui          Launch interactive map mode")
	fmt.Println("  version      Show version information")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  --server <url>       Event service URL (default: http://localhost:8000)")
	fmt.Println("  --output <format>    Output format: json, table, plain (default: table)")
	fmt.Println("  --tui                Launch TUI mode")
	fmt.Println("  --no-color           Disable colored output")
	fmt.Println("  --version            Show version information")
	fmt.Println("  --help               Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  eventmap config init")
	fmt.Println("  eventmap config set server http://localhost:8000")
	fmt.Println("  eventmap events --day 2025-03-05 --categories food,music")
	fmt.Println("  eventmap search free pizza")
	fmt.Println("  eventmap search \"#music\"")
	fmt.Println("  eventmap search --ai \"something fun tonight\"")
	fmt.Println("  eventmap create --title \"Open Mic\" --lat 33.645198 --lon -117.841019 \\")
	fmt.Println("      --day 2025-03-05 --start 18:00 --end 20:00")
	fmt.Println("  eventmap export --day 2025-03-05 --out events.ics")
	fmt.Println("  eventmap tui")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  Config file location: ~/.config/anteater/eventmap/cli.yml")
	fmt.Println("  Initialize config: eventmap config init")
	fmt.Println()
}

// printVersion prints version information
func printVersion() error {
	fmt.Printf("eventmap version %s\n", Version)
	fmt.Printf("Git commit: %s\n", GitCommit)
	fmt.Printf("Build date: %s\n", BuildDate)
	return nil
}

// handleConfigCommand handles config subcommands
func handleConfigCommand(args []string) error {
	if len(args) == 0 {
		return NewUsageError("config command requires a subcommand (init, show, get, set)")
	}

	switch args[0] {
	case "init":
		return InitConfig()

	case "show":
		config, err := LoadConfig()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(ConfigPath())
		if err == nil {
			fmt.Println(string(data))
		} else {
			// No file yet, show the effective defaults
			fmt.Printf("server: %s\n", config.Server)
			fmt.Printf("output: %s\n", config.Output)
			fmt.Printf("timeout: %d\n", config.Timeout)
			fmt.Printf("no_color: %t\n", config.NoColor)
		}
		return nil

	case "get":
		if len(args) < 2 {
			return NewUsageError("config get requires a key")
		}
		value, err := GetConfigValue(args[1])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil

	case "set":
		if len(args) < 3 {
			return NewUsageError("config set requires a key and value")
		}
		if err := SetConfigValue(args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("Configuration updated: %s = %s\n", args[1], args[2])
		return nil

	default:
		return NewUsageError(fmt.Sprintf("unknown config subcommand: %s", args[0]))
	}
}
