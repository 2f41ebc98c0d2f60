// cmd/silod/main.go

package main

import (
	"context"
	"flag"
	"log"

	"github.com/Aboubacarelhacen/silo/pkg/api"
	"github.com/Aboubacarelhacen/silo/pkg/auth"
	"github.com/Aboubacarelhacen/silo/pkg/broadcast"
	"github.com/Aboubacarelhacen/silo/pkg/config"
	"github.com/Aboubacarelhacen/silo/pkg/lifecycle"
	"github.com/Aboubacarelhacen/silo/pkg/opc"
	"github.com/Aboubacarelhacen/silo/pkg/silo"
)

func main() {
	configPath := flag.String("config", "/etc/silod/silod.json", "Path to config file")
	flag.Parse()

	var cfg config.SilodConfig
	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Every shared component is constructed once here and handed to its
	// consumers explicitly; nothing reaches for ambient globals.
	source := opc.NewSessionManager(cfg.OPC, opc.NewDialer(cfg.OPC))
	store := silo.NewStore(cfg.Monitor.HistorySize)
	hub := broadcast.NewHub()
	monitor := silo.NewMonitor(cfg.Monitor, source, store, hub)

	users := auth.NewRepository()
	authn := auth.NewService(cfg.Auth, users)

	server := api.NewServer(cfg.HTTP, store, source, authn, users, hub)

	if err := lifecycle.RunServer(context.Background(), &lifecycle.ServerOptions{
		ListenAddr:  cfg.HTTP.ListenAddr,
		ServiceName: "silod",
		Service:     monitor,
		Handler:     server.Router(),
	}); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
