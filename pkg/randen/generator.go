package randen

import (
	"io"
	"log"
	"math/rand/v2"
	"sync"
	"time"
)

// Config configures a Generator.
type Config struct {
	// Seed makes generation reproducible. Zero picks a random seed.
	Seed uint64

	// Workers > 1 generates the columns of one table concurrently.
	// Results do not depend on the worker count.
	Workers int

	// MaxStringAttempts caps the candidates drawn per unique string column.
	// Zero selects a budget proportional to the row count.
	MaxStringAttempts int

	// OnColumn, when set, is called after each column is generated. With
	// Workers > 1 it may be called from several goroutines.
	OnColumn func(name string)

	Logger *log.Logger
	Now    func() time.Time
}

// Generator builds random tables. It is safe for concurrent use: every call
// derives its own random stream from the seed source and keeps no state
// between calls.
type Generator struct {
	mu  sync.Mutex
	src *rand.Rand

	workers           int
	maxStringAttempts int
	onColumn          func(name string)
	logger            *log.Logger
	now               func() time.Time
}

// New creates a generator from cfg.
func New(cfg Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Generator{
		src:               rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		workers:           cfg.Workers,
		maxStringAttempts: cfg.MaxStringAttempts,
		onColumn:          cfg.OnColumn,
		logger:            logger,
		now:               now,
	}
}

// Quiet returns a Config whose logger discards everything.
func Quiet(seed uint64) Config {
	return Config{Seed: seed, Logger: log.New(io.Discard, "", 0)}
}

// newRand derives an independent stream for one call.
func (g *Generator) newRand() *rand.Rand {
	g.mu.Lock()
	defer g.mu.Unlock()
	return deriveRand(g.src)
}

func deriveRand(r *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(r.Uint64(), r.Uint64()))
}
