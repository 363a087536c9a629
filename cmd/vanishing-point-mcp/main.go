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

	"github.com/ironsheep/vanishing-point-mcp/internal/config"
	"github.com/ironsheep/vanishing-point-mcp/internal/httpapi"
	"github.com/ironsheep/vanishing-point-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("vanishing-point-mcp - vanishing point estimation for sports field images")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vanishing-point-mcp [--config file]                  MCP server on stdin/stdout")
	fmt.Println("  vanishing-point-mcp --http [--config file]           HTTP API")
	fmt.Println("  vanishing-point-mcp --dump dir [--config file] image Write pipeline stages as PNGs")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config file    YAML configuration file")
	fmt.Println("  --http           Serve the HTTP API instead of MCP")
	fmt.Println("  --dump dir       Run the pipeline on one image and save every stage")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  VPOINT_LOG_LEVEL=debug       Enable debug logging")
	fmt.Println("  VPOINT_HTTP_ADDR=:8000       HTTP listen address")
	fmt.Println("  VPOINT_CORS_ORIGINS=a,b      Allowed CORS origins")
	fmt.Println("  VPOINT_PLAUSIBILITY=any      Let every intersection vote")
	fmt.Println()
	fmt.Println("In MCP mode the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	// Handle bare version and help words like the flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			printVersion()
			return
		case "help":
			usage()
			return
		}
	}

	fs := flag.NewFlagSet("vanishing-point-mcp", flag.ExitOnError)
	fs.Usage = usage
	configPath := fs.String("config", "", "YAML configuration file")
	serveHTTP := fs.Bool("http", false, "serve the HTTP API")
	dumpDir := fs.String("dump", "", "write pipeline stages for one image into this directory")
	showVersion := fs.Bool("version", false, "print version information")
	fs.BoolVar(showVersion, "v", false, "print version information")
	fs.Parse(os.Args[1:])

	if *showVersion {
		printVersion()
		return
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Vanishing Point MCP v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}
	server.Version = Version

	switch {
	case *dumpDir != "":
		if fs.NArg() != 1 {
			log.Fatalf("--dump needs exactly one image path, got %d", fs.NArg())
		}
		summary, err := dump(cfg, fs.Arg(0), *dumpDir)
		if err != nil {
			log.Fatalf("Dump failed: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			log.Fatalf("Failed to write summary: %v", err)
		}

	case *serveHTTP:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := httpapi.NewServer(cfg).ListenAndServe(ctx); err != nil {
			log.Fatalf("Server error: %v", err)
		}

	default:
		srv := server.New(cfg)
		if err := srv.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}

func printVersion() {
	fmt.Printf("vanishing-point-mcp %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}
