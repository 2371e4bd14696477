package players

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/atleticomaneiro/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type newPlayerRequest struct {
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position"`
	ImageURL string `json:"image_url"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
	Saves    *int   `json:"saves"`
}

type updatePlayerRequest struct {
	ID int `json:"id"`
	newPlayerRequest
}

type playersRepo interface {
	Add(ctx context.Context, player *Player) error
	Update(ctx context.Context, player *Player) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*Player, error)
	Get(ctx context.Context, id int) (*Player, error)
}

type Handler struct {
	repo playersRepo
}

func NewHandler(repo playersRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/players/all", handler.handleAll).Methods("GET").Name("all-players")
	router.HandleFunc("/players/new", handler.handleNew).Methods("POST", "OPTIONS").Name("new-player")
	router.HandleFunc("/players/update", handler.handleUpdate).Methods("POST", "OPTIONS").Name("update-player")
	router.HandleFunc("/players/delete/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-player")
	router.HandleFunc("/players/{id}", handler.handleGet).Methods("GET").Name("get-player")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	allPlayers, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all players: %s", err)
		http.Error(w, "failed to get players", http.StatusInternalServerError)
		return
	}
	if allPlayers == nil {
		allPlayers = []*Player{}
	}

	playersJson, err := json.Marshal(allPlayers)
	if err != nil {
		log.Errorf("marshal players: %s", err)
		http.Error(w, "failed to get players", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, playersJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	player, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPlayerNotFound) {
			http.Error(w, "player not found", http.StatusNotFound)
			return
		}
		log.Errorf("get player %d: %s", id, err)
		http.Error(w, "failed to get player", http.StatusInternalServerError)
		return
	}

	playerJson, err := json.Marshal(player)
	if err != nil {
		log.Errorf("marshal player %d: %s", id, err)
		http.Error(w, "failed to get player", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, playerJson)
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	var newPlayerReq newPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&newPlayerReq); err != nil {
		log.Errorf("new player, unmarshal json params: %s", err)
		http.Error(w, "add player failed", http.StatusBadRequest)
		return
	}

	if newPlayerReq.Name == "" {
		http.Error(w, "error, name empty", http.StatusBadRequest)
		return
	}

	newPlayer := &Player{
		Name:     newPlayerReq.Name,
		Number:   newPlayerReq.Number,
		Position: newPlayerReq.Position,
		ImageURL: newPlayerReq.ImageURL,
		Goals:    newPlayerReq.Goals,
		Assists:  newPlayerReq.Assists,
		Saves:    newPlayerReq.Saves,
	}

	if err := handler.repo.Add(r.Context(), newPlayer); err != nil {
		log.Errorf("add new player failed: %s", err)
		http.Error(w, "add new player failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new player %d: [%s] added", newPlayer.ID, newPlayer.Name)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("added:%d", newPlayer.ID),
		http.StatusCreated,
	)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var updateReq updatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Errorf("update player, unmarshal json params: %s", err)
		http.Error(w, "update player failed", http.StatusBadRequest)
		return
	}

	if updateReq.Name == "" {
		http.Error(w, "error, name empty", http.StatusBadRequest)
		return
	}

	player := &Player{
		ID:       updateReq.ID,
		Name:     updateReq.Name,
		Number:   updateReq.Number,
		Position: updateReq.Position,
		ImageURL: updateReq.ImageURL,
		Goals:    updateReq.Goals,
		Assists:  updateReq.Assists,
		Saves:    updateReq.Saves,
	}

	if err := handler.repo.Update(r.Context(), player); err != nil {
		if errors.Is(err, ErrPlayerNotFound) {
			http.Error(w, "player not found", http.StatusNotFound)
			return
		}
		log.Errorf("update player failed: %s", err)
		http.Error(w, "update player failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%d", updateReq.ID))
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrPlayerNotFound) {
			http.Error(w, "player not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete player %d failed: %s", id, err)
		http.Error(w, "delete player failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}
