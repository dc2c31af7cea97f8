package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/emrzvv/qrng-research/internal/config"
)

func main() {
	cfgPath := flag.String("cfg", "./config/default.yaml", "path to config")
	outDir := flag.String("out", "", "output directory, overrides output.dir")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stages := []struct {
		name string
		run  func(context.Context, *config.Config) error
	}{
		{"points", runPoints},
		{"uniformity", runUniformity},
		{"quality", runQuality},
		{"pricing", runPricing},
		{"queue", runQueue},
	}
	for _, s := range stages {
		if err := s.run(ctx, cfg); err != nil {
			log.Fatalf("%s: %v", s.name, err)
		}
	}
	log.Printf("results in %s", filepath.Clean(cfg.Output.Dir))
}
