package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"charging_station/internal/handlers"
	"charging_station/internal/logger"
	"charging_station/internal/repository"
	"charging_station/internal/repository/db"
	"charging_station/internal/server"
	"charging_station/internal/service"

	"github.com/spf13/viper"

	_ "charging_station/docs"
)

// @title           Charging Station API
// @version         1.0
// @description     Battery charging station server: submit a charge goal, stream progress, cancel mid-flight.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	cfg := chargerConfig()
	// A non-positive rate can never converge on a target; refuse to serve.
	if cfg.Rate <= 0 {
		log.Fatalw("misconfigured charge rate, must be > 0", "rate", cfg.Rate)
	}

	// open DB
	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// context for goal execution goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services := service.NewService(ctx, repos, log, cfg)
	apiHandler := handlers.NewHandler(services, log)

	// charge level resets to the configured value on every boot
	if err := services.Charger.Reset(ctx); err != nil {
		log.Fatalw("failed to seed charger state", "err", err)
	}
	log.Infow("charging station ready", "level", cfg.InitialLevel, "rate", cfg.Rate)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetDefault("charger.rate", 5.0)
	viper.SetDefault("charger.initial_level", 20.0)
	viper.SetDefault("charger.tick", service.DefaultTick)
	return viper.ReadInConfig()
}

// chargerConfig assembles the charger's fixed runtime configuration.
func chargerConfig() service.Config {
	return service.Config{
		Rate:         viper.GetFloat64("charger.rate"),
		InitialLevel: viper.GetFloat64("charger.initial_level"),
		Tick:         viper.GetDuration("charger.tick"),
		SigningKey:   viper.GetString("jwt.signing_key"),
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop goal execution goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
