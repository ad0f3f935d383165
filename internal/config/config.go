// Package config loads server configuration from the environment, with an
// optional YAML tuning file for world parameters.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration.
type Config struct {
	// Port the HTTP server listens on (env PORT)
	Port int

	// StaticDir is the directory served as the game client (env STATIC_DIR)
	StaticDir string

	// StorageType selects the persistence backend: jsonfile, memory, or
	// redis (env STORAGE_TYPE)
	StorageType string

	// DataDir holds the JSON documents for the jsonfile backend (env DATA_DIR)
	DataDir string

	// RedisURL configures the redis backend (env REDIS_URL)
	RedisURL string

	// Tuning holds world parameters, optionally overridden from a YAML file
	// (env TUNING_FILE)
	Tuning Tuning
}

// Tuning holds the world parameters a deployment may want to adjust.
type Tuning struct {
	TickIntervalMs int `yaml:"tick_interval_ms"`
	GrassCoinFloor int `yaml:"grass_coin_floor"`
	RoadCoinFloor  int `yaml:"road_coin_floor"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Port:        10000,
		StaticDir:   "public",
		StorageType: "jsonfile",
		DataDir:     "data",
		Tuning: Tuning{
			TickIntervalMs: 50,
			GrassCoinFloor: 4,
			RoadCoinFloor:  3,
		},
	}
}

// Load builds the configuration from the environment on top of defaults.
func Load() (Config, error) {
	cfg := Default()

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return cfg, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Port = p
	}
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		cfg.StaticDir = dir
	}
	if st := os.Getenv("STORAGE_TYPE"); st != "" {
		cfg.StorageType = st
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	cfg.RedisURL = os.Getenv("REDIS_URL")

	if path := os.Getenv("TUNING_FILE"); path != "" {
		if err := loadTuning(path, &cfg.Tuning); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// loadTuning overlays tuning values from a YAML file. Absent keys keep their
// defaults.
func loadTuning(path string, tuning *Tuning) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read tuning file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, tuning); err != nil {
		return fmt.Errorf("failed to parse tuning file %s: %w", path, err)
	}
	return nil
}
