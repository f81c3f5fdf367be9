package main

import (
	"flag"
	"log"

	"pkg.jsn.cam/randen/internal/server"
	"pkg.jsn.cam/randen/pkg/randen"
)

func runServe(args []string) {
	s := loadSettings(args)

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.String("config", "", "Config file")
	fs.StringVar(&s.Addr, "addr", s.Addr, "Listen address")
	fs.StringVar(&s.Store, "store", s.Store, "bbolt snapshot file (in memory when empty)")
	fs.Uint64Var(&s.Seed, "seed", s.Seed, "Random seed (0 picks one)")
	fs.IntVar(&s.Workers, "workers", s.Workers, "Columns generated concurrently")
	fs.Parse(args)

	store := openStore(s.Store)
	defer store.Close()

	if s.Store != "" {
		log.Printf("[SERVER] Using snapshot store %s", s.Store)
	}

	srv := server.New(randen.New(s.GeneratorConfig()), store)
	if err := srv.Start(s.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
