package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"docqa/internal/api"
	"docqa/internal/bootstrap"
	"docqa/internal/config"
	"docqa/internal/logger"
)

type Server struct {
	listenAddr string
	app        *fiber.App
	logger     logger.ILogger
}

func NewServer(addr string, app *fiber.App, l logger.ILogger) *Server {
	return &Server{listenAddr: addr, app: app, logger: l}
}

func (s *Server) Run() {
	s.logger.Info("server", "listening", map[string]interface{}{"addr": s.listenAddr})
	if err := s.app.Listen(s.listenAddr); err != nil {
		s.logger.Error("server", "error to start server", map[string]interface{}{"error": err})
	}
}

func (s *Server) Stop() {
	if err := s.app.ShutdownWithTimeout(10 * time.Second); err != nil {
		s.logger.Error("server", "shutdown failed", map[string]interface{}{"error": err})
	}
	s.logger.Info("server", "server stopped", nil)
}

func main() {
	_ = godotenv.Load()

	var cfgPath, addr string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	flag.StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	flag.Parse()

	cfg, _, err := config.Resolve(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if addr == "" {
		addr = os.Getenv("SERVER_ADDR")
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	sysLogger := logger.NewZapLogger(cfg.Log.FilePath, cfg.Log.Production)
	defer sysLogger.Sync()

	c, err := bootstrap.NewContainer(context.Background(), cfg, sysLogger)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	app := api.NewApp(c.Service, sysLogger, cfg.Server.MaxUploadMB*1024*1024)
	s := NewServer(addr, app, sysLogger)

	go s.Run()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	log.Println("Received shutdown signal, shutting down server...")
	s.Stop()
}
