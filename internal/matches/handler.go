package matches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/atleticomaneiro/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type newMatchRequest struct {
	Opponent string    `json:"opponent"`
	Location string    `json:"location"`
	StartsAt time.Time `json:"starts_at"`
}

type updateMatchRequest struct {
	ID int `json:"id"`
	newMatchRequest
}

type matchResultRequest struct {
	ID        int `json:"id"`
	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`
}

type matchesRepo interface {
	Add(ctx context.Context, match *Match) error
	Update(ctx context.Context, match *Match) error
	SetResult(ctx context.Context, id, homeGoals, awayGoals int) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*Match, error)
	Next(ctx context.Context, now time.Time) (*Match, error)
	Get(ctx context.Context, id int) (*Match, error)
}

type Handler struct {
	repo matchesRepo
	now  func() time.Time
}

func NewHandler(repo matchesRepo) *Handler {
	return &Handler{
		repo: repo,
		now:  time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/matches/all", handler.handleAll).Methods("GET").Name("all-matches")
	router.HandleFunc("/matches/next", handler.handleNext).Methods("GET").Name("next-match")
	router.HandleFunc("/matches/new", handler.handleNew).Methods("POST", "OPTIONS").Name("new-match")
	router.HandleFunc("/matches/update", handler.handleUpdate).Methods("POST", "OPTIONS").Name("update-match")
	router.HandleFunc("/matches/result", handler.handleResult).Methods("PATCH", "OPTIONS").Name("match-result")
	router.HandleFunc("/matches/delete/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-match")
	router.HandleFunc("/matches/{id}", handler.handleGet).Methods("GET").Name("get-match")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	allMatches, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all matches: %s", err)
		http.Error(w, "failed to get matches", http.StatusInternalServerError)
		return
	}
	if allMatches == nil {
		allMatches = []*Match{}
	}

	matchesJson, err := json.Marshal(allMatches)
	if err != nil {
		log.Errorf("marshal matches: %s", err)
		http.Error(w, "failed to get matches", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, matchesJson)
}

func (handler *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	nextMatch, err := handler.repo.Next(r.Context(), handler.now())
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			http.Error(w, "no upcoming match", http.StatusNotFound)
			return
		}
		log.Errorf("get next match: %s", err)
		http.Error(w, "failed to get next match", http.StatusInternalServerError)
		return
	}

	matchJson, err := json.Marshal(nextMatch)
	if err != nil {
		log.Errorf("marshal next match: %s", err)
		http.Error(w, "failed to get next match", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, matchJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	match, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}
		log.Errorf("get match %d: %s", id, err)
		http.Error(w, "failed to get match", http.StatusInternalServerError)
		return
	}

	matchJson, err := json.Marshal(match)
	if err != nil {
		log.Errorf("marshal match %d: %s", id, err)
		http.Error(w, "failed to get match", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, matchJson)
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	var newMatchReq newMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&newMatchReq); err != nil {
		log.Errorf("new match, unmarshal json params: %s", err)
		http.Error(w, "add match failed", http.StatusBadRequest)
		return
	}

	if newMatchReq.Opponent == "" {
		http.Error(w, "error, opponent empty", http.StatusBadRequest)
		return
	}
	if newMatchReq.StartsAt.IsZero() {
		http.Error(w, "error, starts_at empty", http.StatusBadRequest)
		return
	}

	newMatch := &Match{
		Opponent:  newMatchReq.Opponent,
		Location:  newMatchReq.Location,
		StartsAt:  newMatchReq.StartsAt,
		CreatedAt: handler.now(),
	}

	if err := handler.repo.Add(r.Context(), newMatch); err != nil {
		log.Errorf("add new match failed: %s", err)
		http.Error(w, "add new match failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new match %d: vs [%s] added", newMatch.ID, newMatch.Opponent)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("added:%d", newMatch.ID),
		http.StatusCreated,
	)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var updateReq updateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Errorf("update match, unmarshal json params: %s", err)
		http.Error(w, "update match failed", http.StatusBadRequest)
		return
	}

	if updateReq.Opponent == "" {
		http.Error(w, "error, opponent empty", http.StatusBadRequest)
		return
	}

	match := &Match{
		ID:       updateReq.ID,
		Opponent: updateReq.Opponent,
		Location: updateReq.Location,
		StartsAt: updateReq.StartsAt,
	}

	if err := handler.repo.Update(r.Context(), match); err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}
		log.Errorf("update match failed: %s", err)
		http.Error(w, "update match failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%d", updateReq.ID))
}

func (handler *Handler) handleResult(w http.ResponseWriter, r *http.Request) {
	var resultReq matchResultRequest
	if err := json.NewDecoder(r.Body).Decode(&resultReq); err != nil {
		log.Errorf("match result, unmarshal json params: %s", err)
		http.Error(w, "set match result failed", http.StatusBadRequest)
		return
	}

	if resultReq.HomeGoals < 0 || resultReq.AwayGoals < 0 {
		http.Error(w, "error, negative goals", http.StatusBadRequest)
		return
	}

	if err := handler.repo.SetResult(
		r.Context(), resultReq.ID, resultReq.HomeGoals, resultReq.AwayGoals,
	); err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}
		log.Errorf("set match result failed: %s", err)
		http.Error(w, "set match result failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("match %d result set: %d:%d", resultReq.ID, resultReq.HomeGoals, resultReq.AwayGoals)

	pkg.WriteTextResponseOK(w, fmt.Sprintf("result-set:%d", resultReq.ID))
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete match %d failed: %s", id, err)
		http.Error(w, "delete match failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}
