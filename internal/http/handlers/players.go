package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-score/internal/avatar"
	"github.com/mauv0809/court-score/internal/club"
)

// PlayerRequest is the editable part of a player.
type PlayerRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// PlayerView is a player as served to clients, with the identicon to show
// when the chosen avatar fails to load.
type PlayerView struct {
	club.Player
	FallbackAvatar string `json:"fallbackAvatar"`
}

func newPlayerView(p club.Player) PlayerView {
	return PlayerView{Player: p, FallbackAvatar: avatar.Fallback(p.ID)}
}

func newPlayerViews(players []club.Player) []PlayerView {
	views := make([]PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, newPlayerView(p))
	}
	return views
}

func ListPlayersHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.SearchPlayers(r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newPlayerViews(players))
	}
}

// CreatePlayerHandler adds a player. With dry_run the player is validated
// and echoed back with 200 but not stored.
func CreatePlayerHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		player := club.Player{
			Name:   club.NormalizeName(req.Name),
			Avatar: req.Avatar,
		}
		if player.Avatar == "" {
			player.Avatar = avatar.Random()
		}
		if err := club.ValidatePlayer(player); err != nil {
			writeError(w, err)
			return
		}

		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have created player", "name", player.Name)
			writeJSON(w, http.StatusOK, newPlayerView(player))
			return
		}
		created, err := store.CreatePlayer(player)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newPlayerView(created))
	}
}

func GetPlayerHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := store.GetPlayer(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newPlayerView(*player))
	}
}

// UpdatePlayerHandler edits name and avatar. Counters are owned by the
// processor and are carried over unchanged.
func UpdatePlayerHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		player, err := store.GetPlayer(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		player.Name = club.NormalizeName(req.Name)
		if req.Avatar != "" {
			player.Avatar = req.Avatar
		}
		if err := club.ValidatePlayer(*player); err != nil {
			writeError(w, err)
			return
		}

		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have updated player", "playerID", player.ID)
			writeJSON(w, http.StatusOK, newPlayerView(*player))
			return
		}
		updated, err := store.UpdatePlayer(*player)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newPlayerView(updated))
	}
}

func DeletePlayerHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if IsDryRunFromContext(r) {
			if _, err := store.GetPlayer(id); err != nil {
				writeError(w, err)
				return
			}
			log.Info("[Dry Run] Would have removed player", "playerID", id)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := store.DeletePlayer(id); err != nil {
			writeError(w, err)
			return
		}
		log.Info("Player removed", "playerID", id)
		w.WriteHeader(http.StatusNoContent)
	}
}
