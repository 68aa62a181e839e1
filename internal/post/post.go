package post

import (
	"context"
	"fmt"

	posthttp "devconnector/internal/post/adapter/http"
	"devconnector/internal/post/adapter/identity"
	"devconnector/internal/post/adapter/persistence/mongodb"
	"devconnector/internal/post/adapter/realtime"
	"devconnector/internal/post/domain/model"
	"devconnector/internal/post/domain/repository"
	"devconnector/internal/post/usecase"
	"devconnector/internal/shared/eventbus"
	"devconnector/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostModule wires the post store, the activity feed and the routes.
type PostModule struct {
	repository repository.PostRepository
	activity   repository.ActivityStore
	hub        *realtime.Hub
	usecase    usecase.PostUsecaseInterface
	handler    *posthttp.PostHTTPHandler
	wsHandler  *posthttp.WebSocketHandler
	log        logger.Logger
}

// NewPostModule creates the post module over MongoDB. activity may be nil, in
// which case only live websocket subscribers see post activity.
func NewPostModule(
	ctx context.Context,
	db *mongo.Database,
	users identity.UserFinder,
	activity repository.ActivityStore,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) (*PostModule, error) {
	postRepo, err := mongodb.NewMongoPostRepository(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create post repository: %w", err)
	}
	return NewPostModuleWithRepository(postRepo, users, activity, bus, log), nil
}

// NewPostModuleWithRepository assembles the module around an existing post store.
func NewPostModuleWithRepository(
	posts repository.PostRepository,
	users identity.UserFinder,
	activity repository.ActivityStore,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) *PostModule {
	if log == nil {
		log = logger.NewNopLogger()
	}
	hub := realtime.NewHub(0, log)
	postUsecase := usecase.NewPostUsecase(posts, identity.NewUserAuthorLookup(users), activity, bus, log)

	m := &PostModule{
		repository: posts,
		activity:   activity,
		hub:        hub,
		usecase:    postUsecase,
		handler:    posthttp.NewPostHTTPHandler(postUsecase),
		wsHandler:  posthttp.NewWebSocketHandler(postUsecase, hub, log),
		log:        log.WithComponent("post"),
	}

	if bus != nil {
		for _, eventType := range eventbus.PostEventTypes {
			bus.Subscribe(eventType, m.broadcast)
			if activity != nil {
				bus.Subscribe(eventType, m.record)
			}
		}
	}
	return m
}

func (m *PostModule) broadcast(_ context.Context, event eventbus.Event) error {
	if activity, ok := model.ActivityFromEvent(event); ok {
		m.hub.Broadcast(activity)
	}
	return nil
}

func (m *PostModule) record(ctx context.Context, event eventbus.Event) error {
	activity, ok := model.ActivityFromEvent(event)
	if !ok {
		m.log.Warnf("ignoring %s event without activity payload", event.Type())
		return nil
	}
	return m.activity.Append(ctx, activity)
}

// RegisterRoutes mounts the post routes behind protect and the activity
// websocket behind protectWS.
func (m *PostModule) RegisterRoutes(router fiber.Router, protect, protectWS fiber.Handler) {
	m.handler.SetupPostRoutes(router, protect)
	m.wsHandler.RegisterRoutes(router, protectWS)
}

// GetUsecase returns the post usecase
func (m *PostModule) GetUsecase() usecase.PostUsecaseInterface {
	return m.usecase
}

// GetRepository returns the post store. The profile module uses it to remove
// a deleted user's posts.
func (m *PostModule) GetRepository() repository.PostRepository {
	return m.repository
}

// GetHub returns the live activity hub
func (m *PostModule) GetHub() *realtime.Hub {
	return m.hub
}

// Close disconnects websocket subscribers.
func (m *PostModule) Close() {
	m.hub.Close()
}
