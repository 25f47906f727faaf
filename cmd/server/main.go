package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"breachline/internal/api"
	"breachline/internal/config"
	"breachline/internal/lobby"
	"breachline/internal/maps"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	log.Println("================================")
	log.Println(" BREACHLINE - MATCH SERVER")
	log.Println("================================")

	appConfig := config.Load()

	m, err := maps.Load(appConfig.Server.MapPath)
	if err != nil {
		log.Fatalf("failed to load map: %v", err)
	}
	log.Printf("map %q loaded: %dx%d, %d walls, %d spawns",
		m.Name, int(m.Width), int(m.Height), len(m.Walls), len(m.Spawns))

	lob := lobby.New(m, appConfig)

	debugCfg := api.DefaultObservabilityConfig()
	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		debugCfg.Enabled = false
	}
	if err := api.StartDebugServer(debugCfg); err != nil {
		log.Printf("debug server disabled: %v", err)
	}

	server := api.NewServer(lob, api.RouterConfig{
		AdminEnabled: appConfig.Server.AdminEnabled,
	})

	go func() {
		log.Printf("match server listening on %s", appConfig.Server.Addr)
		log.Printf("websocket endpoint: ws://localhost%s/ws", appConfig.Server.Addr)
		if err := server.Start(appConfig.Server.Addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Println("server ready, press Ctrl+C to stop")
	<-quit

	log.Println("shutting down...")
	server.Stop()
	log.Println("goodbye")
}
