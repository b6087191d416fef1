package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soil_monitor/internal/handlers"
	"soil_monitor/internal/logger"
	"soil_monitor/internal/repository"
	"soil_monitor/internal/server"
	"soil_monitor/internal/service"
	"soil_monitor/internal/session"
	"soil_monitor/internal/store"
	"soil_monitor/internal/telemetry"
	"soil_monitor/internal/transport"

	"github.com/spf13/viper"
)

const (
	defaultBaudRate = 9600
	shutdownTimeout = 10 * time.Second
)

func main() {
	// load config.yml, then init the logger at the configured level
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	// open DB (observer accounts only; readings and events are in-memory)
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// core state: latest snapshot + bounded diagnostic log
	readings := store.NewReadingsStore()
	events := store.NewEventLog(viper.GetInt("eventlog.capacity"))

	// the session owns the serial transport and the single read loop
	sess := session.New(transport.NewSerialProvider(), serialConfig(), readings, events, log)

	// optional MQTT telemetry for changed snapshots
	if pub := openTelemetry(log); pub != nil {
		defer pub.Close()
		sess.SetOnChange(pub.Publish)
	}

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, sess, readings, events)
	apiHandler := handlers.NewHandler(services, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(sess, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetDefault("serial.baud", defaultBaudRate)
	viper.SetDefault("eventlog.capacity", store.DefaultEventCapacity)
	return viper.ReadInConfig()
}

// serialConfig builds the fixed transport configuration; baud rate is
// the single supported open parameter.
func serialConfig() transport.Config {
	return transport.Config{
		Port:     viper.GetString("serial.port"),
		BaudRate: viper.GetInt("serial.baud"),
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

// openTelemetry connects the MQTT publisher when a broker is
// configured; a broken broker disables telemetry, never the monitor.
func openTelemetry(log *logger.Logger) *telemetry.Publisher {
	broker := viper.GetString("mqtt.broker")
	if broker == "" {
		return nil
	}
	pub, err := telemetry.NewPublisher(telemetry.Config{
		Broker:   broker,
		ClientID: viper.GetString("mqtt.client_id"),
		Topic:    viper.GetString("mqtt.topic"),
		Username: viper.GetString("mqtt.username"),
		Password: viper.GetString("mqtt.password"),
	}, log)
	if err != nil {
		log.Warnw("telemetry disabled", "err", err)
		return nil
	}
	return pub
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

// waitForShutdown listens for termination signals, disconnects the
// sensor session and stops the HTTP server.
func waitForShutdown(sess *session.Session, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// release the transport first so the read loop stops feeding stores
	if err := sess.Disconnect(ctx); err != nil {
		log.Warnw("session disconnect on shutdown", "err", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
