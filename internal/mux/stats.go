package mux

import (
	"net/http"

	"oneboard-server/pkg/board"
)

type statsResponse struct {
	Players []board.PlayerInfo `json:"players"`
}

func (m *Mux) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statsResponse{
			Players: m.registry.Players(),
		})
	}
}
