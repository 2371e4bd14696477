package news

import (
	"context"
	"sort"
	"sync"
	"time"
)

// TestApi is an in-memory news repo used in tests.
type TestApi struct {
	mutex  sync.RWMutex
	nextID int
	posts  map[int]*News
}

func NewTestApi() *TestApi {
	return &TestApi{
		nextID: 1,
		posts:  map[int]*News{},
	}
}

func (api *TestApi) PostsCount() int {
	api.mutex.RLock()
	defer api.mutex.RUnlock()
	return len(api.posts)
}

func (api *TestApi) Add(_ context.Context, post *News) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if post.Title == "" {
		return ErrNewsTitleEmpty
	}

	post.ID = api.nextID
	api.nextID++
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	api.posts[post.ID] = post

	return nil
}

func (api *TestApi) Update(_ context.Context, post *News) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if post.Title == "" {
		return ErrNewsTitleEmpty
	}

	stored, ok := api.posts[post.ID]
	if !ok {
		return ErrNewsNotFound
	}

	stored.Title = post.Title
	stored.Content = post.Content
	stored.Author = post.Author

	return nil
}

func (api *TestApi) SetPublished(_ context.Context, id int, published bool) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	stored, ok := api.posts[id]
	if !ok {
		return ErrNewsNotFound
	}

	stored.IsPublished = published

	return nil
}

func (api *TestApi) Delete(_ context.Context, id int) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if _, ok := api.posts[id]; !ok {
		return ErrNewsNotFound
	}

	delete(api.posts, id)

	return nil
}

func (api *TestApi) All(_ context.Context) ([]*News, error) {
	api.mutex.RLock()
	defer api.mutex.RUnlock()
	return api.sortedPosts(func(*News) bool { return true }), nil
}

func (api *TestApi) Published(_ context.Context, limit int) ([]*News, error) {
	api.mutex.RLock()
	defer api.mutex.RUnlock()

	published := api.sortedPosts(func(post *News) bool { return post.IsPublished })
	if len(published) > limit {
		published = published[:limit]
	}

	return published, nil
}

func (api *TestApi) PublishedPage(_ context.Context, page, size int) ([]*News, int, error) {
	api.mutex.RLock()
	defer api.mutex.RUnlock()

	published := api.sortedPosts(func(post *News) bool { return post.IsPublished })
	total := len(published)

	from := (page - 1) * size
	if from >= total {
		return []*News{}, total, nil
	}
	to := from + size
	if to > total {
		to = total
	}

	return published[from:to], total, nil
}

func (api *TestApi) Get(_ context.Context, id int) (*News, error) {
	api.mutex.RLock()
	defer api.mutex.RUnlock()

	post, ok := api.posts[id]
	if !ok {
		return nil, ErrNewsNotFound
	}

	return post, nil
}

func (api *TestApi) sortedPosts(keep func(*News) bool) []*News {
	var posts []*News
	for _, post := range api.posts {
		if keep(post) {
			posts = append(posts, post)
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts
}
