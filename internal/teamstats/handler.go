package teamstats

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atleticomaneiro/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type statsResponse struct {
	Stats
	Points int `json:"points"`
}

type statsRepo interface {
	Get(ctx context.Context) (*Stats, error)
	Update(ctx context.Context, stats *Stats) error
}

type Handler struct {
	repo statsRepo
}

func NewHandler(repo statsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/stats", handler.handleGet).Methods("GET").Name("get-stats")
	router.HandleFunc("/stats/update", handler.handleUpdate).Methods("POST", "OPTIONS").Name("update-stats")
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	stats, err := handler.repo.Get(r.Context())
	if err != nil {
		log.Errorf("get team stats: %s", err)
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}

	statsJson, err := json.Marshal(statsResponse{
		Stats:  *stats,
		Points: stats.Points(),
	})
	if err != nil {
		log.Errorf("marshal team stats: %s", err)
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, statsJson)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var stats Stats
	if err := json.NewDecoder(r.Body).Decode(&stats); err != nil {
		log.Errorf("update team stats, unmarshal json params: %s", err)
		http.Error(w, "update stats failed", http.StatusBadRequest)
		return
	}

	if stats.Wins < 0 || stats.Draws < 0 || stats.Losses < 0 ||
		stats.GoalsFor < 0 || stats.GoalsAgainst < 0 {
		http.Error(w, "error, negative stats", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(r.Context(), &stats); err != nil {
		log.Errorf("update team stats failed: %s", err)
		http.Error(w, "update stats failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("team stats updated: %d wins, %d draws, %d losses", stats.Wins, stats.Draws, stats.Losses)

	pkg.WriteTextResponseOK(w, "updated")
}
