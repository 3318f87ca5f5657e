// Package mux provides the HTTP status surface: a health check and a live
// view of the players at the board.
package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"oneboard-server/pkg/board"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version  string
	registry *board.Registry
}

// NewMux returns a new HTTP mux
func NewMux(version string, registry *board.Registry) *Mux {
	this := &Mux{
		Router:   gmux.NewRouter(),
		version:  version,
		registry: registry,
	}

	this.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	this.Methods(http.MethodGet).Path("/stats").Handler(this.getStats())

	return this
}
