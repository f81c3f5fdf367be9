package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"pkg.jsn.cam/randen/internal/config"
	"pkg.jsn.cam/randen/internal/snapshot"
)

const usage = `randen generates random tabular datasets.

Usage:
  randen generate  [-rows N] (-kind TYPE -cols N | -types T1,T2,...) [-names A,B,...] [-out FILE] [-format F]
  randen serve     [-addr ADDR] [-store DB]
  randen snapshots -store DB
  randen show      -store DB -id ID [-out FILE] [-format F]
  randen config    [-file FILE] -section S -option O

Every command accepts -config FILE (yaml, json, toml, ini or env); RANDEN_*
environment variables override it.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "generate":
		runGenerate(args)
	case "serve":
		runServe(args)
	case "snapshots":
		runSnapshots(args)
	case "show":
		runShow(args)
	case "config":
		runConfig(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

// loadSettings reads the file named by -config before the remaining flags
// are parsed, so its values become the flag defaults.
func loadSettings(args []string) config.Settings {
	s, err := config.Load(configPath(args))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return s
}

func configPath(args []string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("RANDEN_CONFIG")
}

func openStore(path string) snapshot.Store {
	if path == "" {
		return snapshot.NewMemoryStore()
	}
	store, err := snapshot.NewBoltStore(path)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	return store
}

// splitList splits a comma separated flag value; empty means not given.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
