// Package main is the reelmatch CLI entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/reelmatch/internal/config"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/reelmatch/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "suggest":
		runSuggest()
	case "import":
		runImport()
	case "build":
		runBuild()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("reelmatch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// buildQuery joins all positional args with spaces so multi-word titles
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front so that flag.Parse sees them. The flag package stops at the
// first non-flag argument, so "reelmatch suggest Heat --mode soup" would
// otherwise leave --mode unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printUsage() {
	fmt.Println(`reelmatch - Content-based movie recommendations

Usage:
  reelmatch server [flags]            Start the HTTP server
  reelmatch suggest [flags] <query>   Suggest movies similar to a title or person
  reelmatch import [flags] <file>     Import a CSV, TSV, XLSX or JSON corpus into the catalog database
  reelmatch build [flags]             Precompute similarity matrices and the title index
  reelmatch status [flags]            Show corpus, snapshot and index status
  reelmatch version                   Show version
  reelmatch help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/reelmatch/config.yaml)
  --debug            Enable debug logging

Suggest Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to compute locally.
  --mode string      Similarity mode: overview or soup (default from config)
  --enrich           Attach poster, release date and popularity from the metadata provider
  --output string    Output format: text, compact or json (default: text)

Import Flags:
  --config string    Config file path

Build Flags:
  --config string    Config file path

Status Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct mode.
  --output string    Output format: text or json (default: text)

Examples:
  reelmatch import movies.csv
  reelmatch build
  reelmatch server
  reelmatch suggest The Dark Knight
  reelmatch suggest --mode soup "The Matrix"
  reelmatch suggest --output compact Christopher Nolan
  reelmatch suggest --server "" --enrich Inception
  reelmatch status --output json`)
}
