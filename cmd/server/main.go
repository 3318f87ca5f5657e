package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"

	"oneboard-server/internal/config"
	"oneboard-server/internal/mux"
	"oneboard-server/internal/server"
	"oneboard-server/pkg/board"
	"oneboard-server/pkg/discovery"
	"oneboard-server/pkg/wire"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the TCP listen address (overrides config)")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	// fail fast
	if cfg.ServerName == "" {
		logrus.Fatal("missing server name in configuration")
	}

	listenAddr := cfg.ListenAddr
	if *addr != "" {
		listenAddr = *addr
	}

	registry := board.NewRegistry()

	srv, err := server.Listen(listenAddr, server.Mode(cfg.Mode), registry)
	if err != nil {
		logrus.WithError(err).Fatal("could not listen")
	}

	logrus.WithFields(logrus.Fields{
		"port": srv.Port(),
		"mode": cfg.Mode,
		"name": cfg.ServerName,
	}).Info("listening")

	if server.Mode(cfg.Mode) == server.ModeBoard {
		go board.New(registry).Run()
	}

	offer := wire.Offer{TCPPort: srv.Port(), ServerName: cfg.ServerName}
	broadcaster := discovery.NewBroadcaster(
		offer,
		discovery.BroadcastAddr(cfg.Discovery.Port),
		time.Duration(cfg.Discovery.IntervalSeconds)*time.Second,
	)
	if err := broadcaster.Start(); err != nil {
		logrus.WithError(err).Fatal("could not start offer broadcaster")
	}

	go func() {
		statusSrv := &http.Server{
			Addr:         cfg.StatusAddr,
			Handler:      loggingHandler(mux.NewMux(Version, registry)),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		}

		logrus.WithField("addr", statusSrv.Addr).Info("status endpoint listening")
		logrus.Fatal(statusSrv.ListenAndServe())
	}()

	srv.Serve()
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
