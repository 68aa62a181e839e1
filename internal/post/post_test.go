package post_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"devconnector/internal/auth"
	authconfig "devconnector/internal/auth/config"
	authmodel "devconnector/internal/auth/domain/model"
	authrepo "devconnector/internal/auth/domain/repository"
	"devconnector/internal/post"
	"devconnector/internal/post/domain/model"
	"devconnector/internal/post/domain/repository"
	apperrors "devconnector/internal/shared/errors"
	"devconnector/internal/shared/eventbus"
	"devconnector/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]authmodel.User
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*authmodel.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, authrepo.ErrUserNotFound
}

func (r *memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*authmodel.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, authrepo.ErrUserNotFound
}

func (r *memoryUsers) Create(_ context.Context, user *authmodel.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return authrepo.ErrEmailTaken
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) Save(_ context.Context, user *authmodel.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type memoryPosts struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]model.Post
}

func clonePost(p model.Post) *model.Post {
	p.Likes = append([]model.Like{}, p.Likes...)
	p.Comments = append([]model.Comment{}, p.Comments...)
	return &p
}

func (r *memoryPosts) Create(_ context.Context, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = *clonePost(*p)
	return nil
}

func (r *memoryPosts) FindByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *memoryPosts) List(_ context.Context) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *memoryPosts) Save(ctx context.Context, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[p.ID]; !ok {
		return repository.ErrPostNotFound
	}
	r.posts[p.ID] = *clonePost(*p)
	return nil
}

func (r *memoryPosts) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memoryPosts) DeleteByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.posts {
		if p.User == userID {
			delete(r.posts, id)
			n++
		}
	}
	return n, nil
}

type memoryActivity struct {
	mu    sync.Mutex
	items []model.Activity
}

func (s *memoryActivity) Append(_ context.Context, a model.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, a)
	return nil
}

func (s *memoryActivity) Recent(_ context.Context, postID string, limit int64) ([]model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Activity{}
	for i := len(s.items) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if s.items[i].PostID == postID {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}

func (s *memoryActivity) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type PostModuleTestSuite struct {
	suite.Suite
	app      *fiber.App
	module   *post.PostModule
	activity *memoryActivity
	bus      *eventbus.EventBus
}

func (s *PostModuleTestSuite) SetupTest() {
	log := logger.NewNopLogger()
	users := &memoryUsers{users: map[primitive.ObjectID]authmodel.User{}}
	cfg := &authconfig.Config{
		JWTSecretKey:   "test-secret",
		JWTIssuer:      "devconnector",
		AccessTokenTTL: time.Hour,
		TokenHeader:    "x-auth-token",
		BcryptCost:     4,
		AvatarSize:     200,
		AvatarRating:   "pg",
		AvatarDefault:  "mm",
	}
	authModule, err := auth.NewAuthModuleWithRepository(users, cfg, log)
	require.NoError(s.T(), err)

	s.activity = &memoryActivity{}
	s.bus = eventbus.NewEventBus(log)
	s.module = post.NewPostModuleWithRepository(
		&memoryPosts{posts: map[primitive.ObjectID]model.Post{}}, users, s.activity, s.bus, log)

	s.app = fiber.New(fiber.Config{ErrorHandler: apperrors.FiberErrorHandler(log)})
	authModule.RegisterRoutes(s.app)
	mw := authModule.GetMiddleware()
	s.module.RegisterRoutes(s.app, mw.Protect(), mw.ProtectWebSocket())
}

func (s *PostModuleTestSuite) TearDownTest() {
	s.bus.Close()
	s.module.Close()
}

func (s *PostModuleTestSuite) do(method, path, token string, body interface{}, out interface{}) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	resp, err := s.app.Test(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(s.T(), err)
		require.NoError(s.T(), json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func (s *PostModuleTestSuite) register(name, email string) string {
	var res struct {
		Token string `json:"token"`
	}
	status := s.do("POST", "/api/users", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	}, &res)
	require.Equal(s.T(), http.StatusCreated, status)
	require.NotEmpty(s.T(), res.Token)
	return res.Token
}

func (s *PostModuleTestSuite) TestPostLifecycle() {
	alice := s.register("Alice", "alice@example.com")
	bob := s.register("Bob", "bob@example.com")

	var created map[string]interface{}
	require.Equal(s.T(), http.StatusOK, s.do("POST", "/api/posts", alice, map[string]string{"text": "hello"}, &created))
	assert.Equal(s.T(), "hello", created["text"])
	assert.Equal(s.T(), "Alice", created["name"])
	assert.Equal(s.T(), []interface{}{}, created["likes"])
	assert.Equal(s.T(), []interface{}{}, created["comments"])
	postID := created["_id"].(string)

	var likes []map[string]interface{}
	require.Equal(s.T(), http.StatusOK, s.do("PUT", "/api/posts/like/"+postID, alice, nil, &likes))
	assert.Len(s.T(), likes, 1)
	require.Equal(s.T(), http.StatusOK, s.do("PUT", "/api/posts/like/"+postID, alice, nil, &likes))
	assert.Len(s.T(), likes, 0)

	var comments []map[string]interface{}
	require.Equal(s.T(), http.StatusOK, s.do("POST", "/api/posts/comment/"+postID, alice, map[string]string{"text": "hi"}, &comments))
	require.Len(s.T(), comments, 1)
	commentID := comments[0]["_id"].(string)

	var msg map[string]interface{}
	assert.Equal(s.T(), http.StatusUnauthorized,
		s.do("DELETE", "/api/posts/comment/"+postID+"/"+commentID, bob, nil, &msg))
	assert.Equal(s.T(), "User not authorized", msg["msg"])

	var fetched map[string]interface{}
	require.Equal(s.T(), http.StatusOK, s.do("GET", "/api/posts/"+postID, bob, nil, &fetched))
	assert.Len(s.T(), fetched["comments"], 1)

	assert.Equal(s.T(), http.StatusUnauthorized, s.do("DELETE", "/api/posts/"+postID, bob, nil, nil))

	// created, liked, unliked, comment_added
	assert.Eventually(s.T(), func() bool { return s.activity.len() == 4 }, 2*time.Second, 10*time.Millisecond)
	var feed []model.Activity
	require.Equal(s.T(), http.StatusOK, s.do("GET", "/api/posts/"+postID+"/activity?limit=2", alice, nil, &feed))
	require.Len(s.T(), feed, 2)
	assert.Equal(s.T(), eventbus.EventTypeCommentAdded, feed[0].Type)
	assert.Equal(s.T(), eventbus.EventTypePostUnliked, feed[1].Type)

	require.Equal(s.T(), http.StatusOK, s.do("DELETE", "/api/posts/"+postID, alice, nil, &msg))
	assert.Equal(s.T(), "Post removed", msg["msg"])
	assert.Equal(s.T(), http.StatusNotFound, s.do("GET", "/api/posts/"+postID, alice, nil, nil))
}

func (s *PostModuleTestSuite) TestRegister_PasswordLongerThanBcryptAccepts() {
	var res struct {
		Errors []map[string]interface{} `json:"errors"`
	}
	status := s.do("POST", "/api/users", "", map[string]string{
		"name": "Long", "email": "long@example.com", "password": strings.Repeat("p", 80),
	}, &res)

	assert.Equal(s.T(), http.StatusBadRequest, status)
	require.Len(s.T(), res.Errors, 1)
	assert.Equal(s.T(), "password", res.Errors[0]["param"])

	token := s.register("Trimmed", "  trimmed@example.com ")
	assert.NotEmpty(s.T(), token)
}

func (s *PostModuleTestSuite) TestRequiresToken() {
	var msg map[string]interface{}
	assert.Equal(s.T(), http.StatusUnauthorized, s.do("GET", "/api/posts", "", nil, &msg))
	assert.Equal(s.T(), "No token, authorization denied", msg["msg"])

	assert.Equal(s.T(), http.StatusUnauthorized, s.do("GET", "/api/posts", "garbage", nil, &msg))
	assert.Equal(s.T(), "Token is not valid", msg["msg"])
}

func TestPostModuleTestSuite(t *testing.T) {
	suite.Run(t, new(PostModuleTestSuite))
}
