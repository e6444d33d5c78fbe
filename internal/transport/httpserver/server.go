package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"family-dues-go/internal/config"
	"family-dues-go/pkg/logger"
)

func New(cfg config.Config, handler http.Handler, log logger.Logger) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
		ErrorLog:          log.StdLogger(slog.LevelError),
	}
}
