// Command geoidd serves geoid height queries over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/flywave/go-geoid"
	"github.com/flywave/go-geoid/internal/config"
	"github.com/flywave/go-geoid/internal/server"
	"github.com/flywave/go-geoid/internal/version"
)

var (
	configPath  = flag.String("config", "", "path to JSON configuration file")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg := config.EmptyConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load models: %v", err)
	}

	if !cfg.GetDebug() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := server.NewHandler(catalog, server.Options{
		DefaultModel: cfg.GetDefaultModel(),
		MaxBatch:     cfg.GetMaxBatch(),
	})

	srv := &http.Server{
		Addr:        cfg.GetListen(),
		Handler:     handler.Router(gin.Logger()),
		ReadTimeout: cfg.GetReadTimeout(),
	}

	go func() {
		log.Printf("geoidd %s listening on %s", version.Version, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func loadCatalog(cfg *config.Config) (*geoid.Catalog, error) {
	loader, err := geoid.NewLoaderWithCustomDir(cfg.GetModelDir())
	if err != nil {
		return nil, err
	}

	catalog := geoid.NewCatalog()
	for _, name := range cfg.GetModels() {
		g, err := loader.Load(name)
		if err != nil {
			return nil, err
		}
		if err := catalog.Add(name, g); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}
