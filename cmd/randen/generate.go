package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"pkg.jsn.cam/randen/internal/snapshot"
	"pkg.jsn.cam/randen/pkg/export"
	"pkg.jsn.cam/randen/pkg/randen"
)

func runGenerate(args []string) {
	s := loadSettings(args)

	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	fs.String("config", "", "Config file")
	rows := fs.Int("rows", 10, "Number of rows")
	cols := fs.Int("cols", 5, "Number of columns (with -kind)")
	kind := fs.String("kind", "", "Column type of a homogeneous table: integer, float, boolean, character, string, dates")
	types := fs.String("types", "", "Comma separated column types of a mixed table: int,float,bool,bytes,str,datetime")
	names := fs.String("names", "", "Comma separated column names")
	format := fs.String("format", "", "Output format: csv, json, parquet, ipc (default from -out extension, then config)")
	out := fs.String("out", "", "Output file (stdout when empty)")
	storePath := fs.String("store", "", "Save the table as a snapshot in this bbolt file")
	name := fs.String("name", "", "Snapshot name")
	start := fs.String("start", "", "First timestamp (RFC 3339, default Unix epoch)")
	end := fs.String("end", "", "Last timestamp (RFC 3339, default now)")

	fs.Uint64Var(&s.Seed, "seed", s.Seed, "Random seed (0 picks one)")
	fs.IntVar(&s.Workers, "workers", s.Workers, "Columns generated concurrently")
	fs.Int64Var(&s.IntMin, "int-min", s.IntMin, "Smallest integer value")
	fs.Int64Var(&s.IntMax, "int-max", s.IntMax, "Integer upper bound (exclusive)")
	fs.Float64Var(&s.FloatMin, "float-min", s.FloatMin, "Smallest float value")
	fs.Float64Var(&s.FloatMax, "float-max", s.FloatMax, "Float upper bound (exclusive)")
	fs.IntVar(&s.MinLen, "min-len", s.MinLen, "Minimum string length")
	fs.IntVar(&s.MaxLen, "max-len", s.MaxLen, "String length upper bound (exclusive)")
	fs.BoolVar(&s.Lowercase, "lowercase", s.Lowercase, "Lowercase characters")
	fs.Parse(args)

	req := randen.Request{
		Rows:   *rows,
		Kind:   *kind,
		Types:  splitList(*types),
		Names:  splitList(*names),
		Params: s.Params(),
	}
	if req.Kind != "" {
		req.Cols = *cols
	}
	if *start != "" {
		t := mustParseTime("start", *start)
		req.Params.Start = &t
	}
	if *end != "" {
		t := mustParseTime("end", *end)
		req.Params.End = &t
	}

	outFormat := resolveFormat(*format, *out, s.Format)

	cfg := s.GeneratorConfig()
	var bar *progressbar.ProgressBar
	if *out != "" {
		total := req.Cols
		if req.Kind == "" {
			total = len(req.Types)
		}
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("generating columns"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		cfg.OnColumn = func(string) { _ = bar.Add(1) }
	}

	started := time.Now()
	tbl, err := randen.New(cfg).Generate(req)
	if err != nil {
		log.Fatalf("Failed to generate table: %v", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if *storePath != "" {
		store := openStore(*storePath)
		meta, err := snapshot.Save(store, *name, tbl)
		store.Close()
		if err != nil {
			log.Fatalf("Failed to save snapshot: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Saved snapshot %s (%s)\n", meta.ID, humanize.Bytes(uint64(meta.Size)))
		if *out == "" {
			return
		}
	}

	if *out == "" {
		if err := export.Write(os.Stdout, tbl, outFormat); err != nil {
			log.Fatalf("Failed to write table: %v", err)
		}
		return
	}

	if err := export.WriteFile(*out, tbl, outFormat); err != nil {
		log.Fatalf("Failed to write table: %v", err)
	}
	printSummary(tbl, *out, outFormat, time.Since(started))
}

// resolveFormat prefers the flag, then the output extension, then the config.
func resolveFormat(flagValue, out, fallback string) export.Format {
	if flagValue != "" {
		return mustParseFormat(flagValue)
	}
	if out != "" {
		if f, err := export.FormatFromPath(out); err == nil {
			return f
		}
	}
	return mustParseFormat(fallback)
}

func mustParseFormat(s string) export.Format {
	f, err := export.ParseFormat(s)
	if err != nil {
		log.Fatalf("Invalid format: %v", err)
	}
	return f
}

func mustParseTime(flagName, value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		log.Fatalf("Invalid -%s: %v", flagName, err)
	}
	return t
}

func printSummary(tbl *randen.Table, path string, f export.Format, took time.Duration) {
	size := "unknown size"
	if info, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}

	rows, cols := tbl.Shape()
	fmt.Fprintf(os.Stderr, "Wrote %s rows x %d columns to %s (%s, %s) in %v\n",
		humanize.Comma(int64(rows)), cols, path, f, size, took.Round(time.Millisecond))
}
