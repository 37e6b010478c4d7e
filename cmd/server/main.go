package main

import (
	"log"

	_ "kanba/docs"
	"kanba/internal/config"
	"kanba/internal/server"
)

// @title           Kanba API
// @version         1.0
// @description     API for multi-tenant Kanban project boards.

// @host      localhost:3001
// @BasePath  /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Opaque session token issued at login/register.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
