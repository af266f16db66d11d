// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all simulation and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the core simulation loop settings.
type SimConfig struct {
	TickRate int // Simulation ticks per second (also the snapshot rate ceiling)
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate: 30, // 30 TPS keeps cast-bar progress smooth without burning CPU
	}
}

// SimFromEnv returns simulation configuration with environment overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tps := getEnvInt("TICK_RATE", 0); tps > 0 {
		cfg.TickRate = tps
	}

	return cfg
}

// =============================================================================
// WORLD / TERRAIN CONFIGURATION
// =============================================================================

// WorldConfig holds terrain generation settings.
// The heightmap is generated once at startup and shared by physics and clients.
type WorldConfig struct {
	Size        float64 // Physical side length of the square terrain (world units)
	GridSize    int     // Heightmap resolution per side (must be >= 2)
	MinHeight   float64 // Lowest terrain elevation
	MaxHeight   float64 // Highest terrain elevation
	Seed        int64   // Deterministic generation seed
	Decorations int     // Number of trees/rocks scattered at generation time
}

// DefaultWorld returns the default world configuration.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		Size:        240,
		GridSize:    96,
		MinHeight:   -4,
		MaxHeight:   14,
		Seed:        1337,
		Decorations: 40,
	}
}

// WorldFromEnv returns world configuration with environment overrides.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()

	if s := getEnvFloat("WORLD_SIZE", 0); s > 0 {
		cfg.Size = s
	}
	if g := getEnvInt("WORLD_GRID", 0); g > 0 {
		cfg.GridSize = g
	}
	if seed := getEnvInt("WORLD_SEED", 0); seed != 0 {
		cfg.Seed = int64(seed)
	}
	if d := getEnvInt("WORLD_DECORATIONS", -1); d >= 0 {
		cfg.Decorations = d
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and snapshot size limits.
type ResourceLimits struct {
	MaxAvatars     int // Hard cap on connected player avatars
	MaxTargets     int // Hard cap on training dummies
	MaxProjectiles int // Maximum in-flight projectiles
	MaxToasts      int // Per-avatar toast notification limit
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxAvatars:     64,
		MaxTargets:     16,
		MaxProjectiles: 128,
		MaxToasts:      5,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      int
	StaticDir string // Directory with the browser client
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:      3000,
		StaticDir: "./web",
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if d := os.Getenv("STATIC_DIR"); d != "" {
		cfg.StaticDir = d
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimConfig
	World  WorldConfig
	Server ServerConfig
	Limits ResourceLimits
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:    SimFromEnv(),
		World:  WorldFromEnv(),
		Server: ServerFromEnv(),
		Limits: DefaultLimits(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
