package api

import (
	"encoding/json"
	"net/http"

	"breachline/internal/game"
)

// Handler methods for routerHandlers. These serve read-only room state;
// all mutation flows through the WebSocket input channel, never REST.

func (h *routerHandlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *routerHandlers) firstRoom() *game.Room {
	rooms := h.lobby.Rooms()
	if len(rooms) == 0 {
		return nil
	}
	return rooms[0]
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	room := h.firstRoom()
	if room == nil {
		writeJSON(w, map[string]interface{}{"players": []game.RosterEntry{}, "tick": 0})
		return
	}
	writeJSON(w, map[string]interface{}{
		"players": room.Roster(),
		"tick":    room.TickCount(),
	})
}

func (h *routerHandlers) handleGetWalls(w http.ResponseWriter, r *http.Request) {
	room := h.firstRoom()
	if room == nil {
		writeJSON(w, []game.WallEntry{})
		return
	}
	writeJSON(w, room.Walls())
}

func (h *routerHandlers) handleGetWeapons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, game.DefaultWeapons)
}

func (h *routerHandlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	room := h.firstRoom()
	if room == nil {
		writeJSON(w, []game.RosterEntry{})
		return
	}
	roster := room.Roster()
	for i := 0; i < len(roster); i++ {
		for j := i + 1; j < len(roster); j++ {
			if roster[j].Kills > roster[i].Kills {
				roster[i], roster[j] = roster[j], roster[i]
			}
		}
	}
	writeJSON(w, roster)
}

func (h *routerHandlers) handleAdminRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.lobby.Rooms()
	out := make([]map[string]interface{}, 0, len(rooms))
	for i, room := range rooms {
		out = append(out, map[string]interface{}{
			"index":      i,
			"tick":       room.TickCount(),
			"players":    room.Roster(),
			"wallCount":  len(room.Walls()),
			"playerIDs":  room.PlayerIDs(),
		})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
