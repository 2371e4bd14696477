package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/atleticomaneiro/backend/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	defaultPublishedLimit = 10
	maxPublishedLimit     = 50

	// published posts change rarely, cache them for a minute
	publishedCacheExpireSeconds = 60
)

type newNewsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

type updateNewsRequest struct {
	ID int `json:"id"`
	newNewsRequest
}

type publishNewsRequest struct {
	ID        int  `json:"id"`
	Published bool `json:"published"`
}

type newsPageResponse struct {
	Posts []*News `json:"posts"`
	Total int     `json:"total"`
}

type newsRepo interface {
	Add(ctx context.Context, post *News) error
	Update(ctx context.Context, post *News) error
	SetPublished(ctx context.Context, id int, published bool) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*News, error)
	Published(ctx context.Context, limit int) ([]*News, error)
	PublishedPage(ctx context.Context, page, size int) ([]*News, int, error)
	Get(ctx context.Context, id int) (*News, error)
}

type Handler struct {
	repo  newsRepo
	cache *freecache.Cache
	now   func() time.Time
}

func NewHandler(repo newsRepo) *Handler {
	megabyte := 1024 * 1024
	return &Handler{
		repo:  repo,
		cache: freecache.NewCache(10 * megabyte),
		now:   time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/news/published", handler.handlePublished).Methods("GET").Name("published-news")
	router.HandleFunc("/news/page/{page}/size/{size}", handler.handleGetPage).Methods("GET").Name("news-page")
	router.HandleFunc("/news/all", handler.handleAll).Methods("GET").Name("all-news")
	router.HandleFunc("/news/new", handler.handleNew).Methods("POST", "OPTIONS").Name("new-news")
	router.HandleFunc("/news/update", handler.handleUpdate).Methods("POST", "OPTIONS").Name("update-news")
	router.HandleFunc("/news/publish", handler.handlePublish).Methods("PATCH", "OPTIONS").Name("publish-news")
	router.HandleFunc("/news/delete/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-news")
	router.HandleFunc("/news/{id}", handler.handleGet).Methods("GET").Name("get-news")
}

func (handler *Handler) handlePublished(w http.ResponseWriter, r *http.Request) {
	limit := defaultPublishedLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsedLimit, err := strconv.Atoi(limitParam)
		if err != nil || parsedLimit <= 0 {
			http.Error(w, "error, limit invalid", http.StatusBadRequest)
			return
		}
		limit = parsedLimit
	}
	if limit > maxPublishedLimit {
		limit = maxPublishedLimit
	}

	cacheKey := []byte(fmt.Sprintf("published::%d", limit))
	if cachedPosts, err := handler.cache.Get(cacheKey); err == nil {
		log.Tracef("found published news in cache, limit %d", limit)
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cachedPosts)
		return
	}

	posts, err := handler.repo.Published(r.Context(), limit)
	if err != nil {
		log.Errorf("get published news: %s", err)
		http.Error(w, "failed to get news", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []*News{}
	}

	postsJson, err := json.Marshal(posts)
	if err != nil {
		log.Errorf("marshal published news: %s", err)
		http.Error(w, "failed to get news", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set(cacheKey, postsJson, publishedCacheExpireSeconds); err != nil {
		log.Warnf("cache published news: %s", err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postsJson)
}

func (handler *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		http.Error(w, "error, page NaN", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		http.Error(w, "error, size NaN", http.StatusBadRequest)
		return
	}
	if page < 1 {
		http.Error(w, "error, page < 1", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "error, size < 1", http.StatusBadRequest)
		return
	}

	posts, total, err := handler.repo.PublishedPage(r.Context(), page, size)
	if err != nil {
		log.Errorf("get news page %d size %d: %s", page, size, err)
		http.Error(w, "failed to get news", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []*News{}
	}

	pageJson, err := json.Marshal(newsPageResponse{
		Posts: posts,
		Total: total,
	})
	if err != nil {
		log.Errorf("marshal news page: %s", err)
		http.Error(w, "failed to get news", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, pageJson)
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all news: %s", err)
		http.Error(w, "failed to get news", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []*News{}
	}

	postsJson, err := json.Marshal(posts)
	if err != nil {
		log.Errorf("marshal all news: %s", err)
		http.Error(w, "failed to get news", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postsJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	post, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNewsNotFound) {
			http.Error(w, "news post not found", http.StatusNotFound)
			return
		}
		log.Errorf("get news post %d: %s", id, err)
		http.Error(w, "failed to get news post", http.StatusInternalServerError)
		return
	}

	postJson, err := json.Marshal(post)
	if err != nil {
		log.Errorf("marshal news post %d: %s", id, err)
		http.Error(w, "failed to get news post", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postJson)
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	var newPostReq newNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&newPostReq); err != nil {
		log.Errorf("new news post, unmarshal json params: %s", err)
		http.Error(w, "add news post failed", http.StatusBadRequest)
		return
	}

	if newPostReq.Title == "" {
		http.Error(w, "error, title empty", http.StatusBadRequest)
		return
	}

	newPost := &News{
		Title:     newPostReq.Title,
		Content:   newPostReq.Content,
		Author:    newPostReq.Author,
		CreatedAt: handler.now(),
	}

	if err := handler.repo.Add(r.Context(), newPost); err != nil {
		log.Errorf("add news post failed: %s", err)
		http.Error(w, "add news post failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new news post %d: [%s] added", newPost.ID, newPost.Title)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("added:%d", newPost.ID),
		http.StatusCreated,
	)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var updateReq updateNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Errorf("update news post, unmarshal json params: %s", err)
		http.Error(w, "update news post failed", http.StatusBadRequest)
		return
	}

	if updateReq.Title == "" {
		http.Error(w, "error, title empty", http.StatusBadRequest)
		return
	}

	post := &News{
		ID:      updateReq.ID,
		Title:   updateReq.Title,
		Content: updateReq.Content,
		Author:  updateReq.Author,
	}

	if err := handler.repo.Update(r.Context(), post); err != nil {
		if errors.Is(err, ErrNewsNotFound) {
			http.Error(w, "news post not found", http.StatusNotFound)
			return
		}
		log.Errorf("update news post failed: %s", err)
		http.Error(w, "update news post failed", http.StatusInternalServerError)
		return
	}

	handler.cache.Clear()

	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%d", updateReq.ID))
}

func (handler *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	var publishReq publishNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&publishReq); err != nil {
		log.Errorf("publish news post, unmarshal json params: %s", err)
		http.Error(w, "publish news post failed", http.StatusBadRequest)
		return
	}

	if err := handler.repo.SetPublished(r.Context(), publishReq.ID, publishReq.Published); err != nil {
		if errors.Is(err, ErrNewsNotFound) {
			http.Error(w, "news post not found", http.StatusNotFound)
			return
		}
		log.Errorf("publish news post failed: %s", err)
		http.Error(w, "publish news post failed", http.StatusInternalServerError)
		return
	}

	handler.cache.Clear()

	log.Tracef("news post %d published: %t", publishReq.ID, publishReq.Published)

	pkg.WriteTextResponseOK(w, fmt.Sprintf("published:%d:%t", publishReq.ID, publishReq.Published))
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNewsNotFound) {
			http.Error(w, "news post not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete news post %d failed: %s", id, err)
		http.Error(w, "delete news post failed", http.StatusInternalServerError)
		return
	}

	handler.cache.Clear()

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}
