package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"waterball/internal/api"
	"waterball/internal/config"
	"waterball/internal/game"
	"waterball/internal/physics"
	"waterball/internal/render"
	"waterball/internal/world"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("🌊 ================================")
	log.Println("🌊  WATERBALL - SIMULATION SERVER")
	log.Println("🌊 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	log.Printf("🎮 Config: %d TPS, world %.0fx%.0f, grid %d",
		appConfig.Sim.TickRate, appConfig.World.Size, appConfig.World.Size, appConfig.World.GridSize)
	log.Printf("🛡️ Limits: %d avatars, %d targets, %d projectiles",
		appConfig.Limits.MaxAvatars, appConfig.Limits.MaxTargets, appConfig.Limits.MaxProjectiles)

	// Terrain and physics. A failed terrain build falls back to a flat
	// kinematic world so the server always comes up.
	var terrain *world.Terrain
	var physWorld *physics.World

	terrain, err := world.Generate(appConfig.World)
	if err != nil {
		log.Printf("⚠️ Terrain generation failed, using flat fallback world: %v", err)
		physWorld = physics.NewFlatWorld(physics.DefaultConfig())
	} else {
		physWorld, err = physics.NewWorld(terrain, physics.DefaultConfig())
		if err != nil {
			log.Printf("⚠️ Physics world failed, using flat fallback world: %v", err)
			terrain = nil
			physWorld = physics.NewFlatWorld(physics.DefaultConfig())
		} else {
			log.Printf("⛰️ Terrain ready: seed %d, %d decorations",
				appConfig.World.Seed, len(terrain.Decorations()))
		}
	}

	// Pre-render the minimap once; the terrain never changes at runtime.
	var minimapPNG []byte
	if terrain != nil {
		if png, err := render.Minimap(terrain); err != nil {
			log.Printf("⚠️ Minimap render failed: %v", err)
		} else {
			minimapPNG = png
			log.Printf("🗺️ Minimap rendered (%d bytes)", len(png))
		}
	}

	// Simulation engine
	engine := game.NewEngine(appConfig, physWorld)
	engine.SetTickObserver(api.RecordTick)
	engine.SetCastObserver(api.RecordSpellCast)

	// Event log
	eventLogPath := getEnvWithDefault("EVENT_LOG_PATH", "events.jsonl")
	if err := engine.EventLog().Start(eventLogPath); err != nil {
		log.Printf("⚠️ Event log disabled: %v", err)
	} else {
		log.Printf("📝 Event log: %s", eventLogPath)
	}

	// Training dummies around the spawn clearing
	dummySpots := [][2]float64{{14, 0}, {-12, 9}, {0, -16}}
	for i, spot := range dummySpots {
		if _, err := engine.AddDummy("dummy_"+strconv.Itoa(i+1), spot[0], spot[1]); err != nil {
			log.Printf("⚠️ Could not place dummy: %v", err)
		}
	}

	// Debug server (pprof + metrics, localhost only)
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	server := api.NewServer(engine, api.ServerConfig{
		Terrain:    terrain,
		Spells:     game.DefaultSpellBook(),
		TickRate:   appConfig.Sim.TickRate,
		StaticDir:  appConfig.Server.StaticDir,
		MinimapPNG: minimapPNG,
	})

	engine.Start()

	go func() {
		addr := ":" + strconv.Itoa(appConfig.Server.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Shutdown error: %v", err)
	}
	engine.Stop()
	engine.EventLog().Stop()
	log.Println("👋 Goodbye!")
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
