package main

import (
	"log"

	"core-banking-ledger/internal/pkg/components"
	"core-banking-ledger/internal/pkg/logging"
)

func main() {
	container, err := components.New()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	cfg := container.GetConfig()
	logging.Info("core banking ledger initialized", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	})

	if err := container.Start(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
