package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"pkg.jsn.cam/randen/internal/config"
	"pkg.jsn.cam/randen/internal/snapshot"
	"pkg.jsn.cam/randen/pkg/export"
)

func runSnapshots(args []string) {
	s := loadSettings(args)

	fs := flag.NewFlagSet("snapshots", flag.ExitOnError)
	fs.String("config", "", "Config file")
	fs.StringVar(&s.Store, "store", s.Store, "bbolt snapshot file")
	fs.Parse(args)

	if s.Store == "" {
		log.Fatal("-store is required")
	}
	store := openStore(s.Store)
	defer store.Close()

	metas, err := store.List()
	if err != nil {
		log.Fatalf("Failed to list snapshots: %v", err)
	}

	if len(metas) == 0 {
		fmt.Println("No snapshots found")
		return
	}

	fmt.Printf("%-36s %-16s %-12s %-10s %s\n", "ID", "NAME", "SHAPE", "SIZE", "CREATED")
	fmt.Println("──────────────────────────────────────────────────────────────────────────────────────────────")
	for _, m := range metas {
		fmt.Printf("%-36s %-16s %-12s %-10s %s\n",
			m.ID,
			m.Name,
			fmt.Sprintf("%dx%d", m.Rows, m.Cols),
			humanize.Bytes(uint64(m.Size)),
			humanize.Time(m.CreatedAt))
	}
}

func runShow(args []string) {
	s := loadSettings(args)

	fs := flag.NewFlagSet("show", flag.ExitOnError)
	fs.String("config", "", "Config file")
	fs.StringVar(&s.Store, "store", s.Store, "bbolt snapshot file")
	id := fs.String("id", "", "Snapshot ID")
	format := fs.String("format", "", "Output format: csv, json, parquet, ipc")
	out := fs.String("out", "", "Output file (stdout when empty)")
	fs.Parse(args)

	if s.Store == "" || *id == "" {
		log.Fatal("-store and -id are required")
	}
	store := openStore(s.Store)
	defer store.Close()

	meta, tbl, err := snapshot.Load(store, *id)
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}

	f := resolveFormat(*format, *out, s.Format)
	if *out == "" {
		if err := export.Write(os.Stdout, tbl, f); err != nil {
			log.Fatalf("Failed to write table: %v", err)
		}
		return
	}

	if err := export.WriteFile(*out, tbl, f); err != nil {
		log.Fatalf("Failed to write table: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote snapshot %s (%dx%d, created %s) to %s\n",
		meta.ID, meta.Rows, meta.Cols, humanize.Time(meta.CreatedAt), *out)
}

func runConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	file := fs.String("file", "config.ini", "INI file")
	section := fs.String("section", "", "Section name")
	option := fs.String("option", "", "Option name")
	fs.Parse(args)

	if *section == "" || *option == "" {
		log.Fatal("-section and -option are required")
	}

	value, err := config.Option(*file, *section, *option)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(value)
}
