package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/KundeServices/booking-gateway/internal/config"
	dbpkg "github.com/KundeServices/booking-gateway/internal/db"
	"github.com/KundeServices/booking-gateway/internal/provider"
	"github.com/KundeServices/booking-gateway/internal/routes"
	"github.com/KundeServices/booking-gateway/internal/store"
)

func main() {

	cfg := config.Load()

	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Persistência: Postgres quando DATABASE_URL está definido, senão
	// memória (suficiente para dev e para rodar sem infra).
	var gdb *gorm.DB
	var st store.Store
	if cfg.DBUrl != "" {
		gdb = dbpkg.NewDB(cfg)
		st = store.NewGormStore(gdb)
	} else {
		log.Println("DATABASE_URL not set, using in-memory store")
		st = store.NewMemoryStore()
	}

	var calendars provider.Calendars = provider.NewGraphCalendars(
		cfg.GraphTenantID,
		cfg.GraphClientID,
		cfg.GraphClientSecret,
		cfg.ProviderTimeout,
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		calendars = provider.NewCachedCalendars(calendars, rdb)
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		Cfg:       cfg,
		Settings:  settings,
		Calendars: calendars,
		Store:     st,
		DB:        gdb,
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
