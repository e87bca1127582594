package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"moving-broker/internal/domain"
	historysvc "moving-broker/internal/service/history"
	requestsvc "moving-broker/internal/service/request"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// userIDHeader carries the authenticated identity resolved by the upstream
// gateway. Token verification is not this service's job.
const userIDHeader = "X-User-Id"

type userIDKey struct{}

// Deps carries the services the router exposes. Interfaces keep handlers
// testable with stubs.
type Deps struct {
	RequestSvc   requestService
	HistorySvc   historyService
	DiscoverySvc discoveryService
}

type requestService interface {
	Create(ctx context.Context, userID string, in requestsvc.CreateInput) (string, error)
	Transition(ctx context.Context, requestID string, target domain.RequestStatus, userID string) error
	FindActiveIDs(ctx context.Context, userID string) ([]string, error)
	AddTargetMover(ctx context.Context, requestID, moverID, userID string) (string, error)
}

type historyService interface {
	ProjectHistory(ctx context.Context, userID string, includeFullAddress bool) ([]historysvc.RequestProjection, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowHeaders: []string{"Origin", "Content-Type", userIDHeader},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	requests := router.Group("/estimate-requests", identityMiddleware())
	requests.POST("", createRequestHandler(deps.RequestSvc))
	requests.GET("/active", activeRequestIDsHandler(deps.RequestSvc))
	requests.GET("/history", historyHandler(deps.HistorySvc))
	requests.PATCH("/:requestId/status", transitionHandler(deps.RequestSvc))
	requests.POST("/:requestId/target-movers", addTargetMoverHandler(deps.RequestSvc))

	router.GET("/movers", listMoversHandler(deps.DiscoverySvc))
	router.GET("/movers/:moverId", moverDetailHandler(deps.DiscoverySvc))

	return router
}

// identityMiddleware requires the gateway-resolved user id on customer
// routes. Discovery stays anonymous-friendly and reads the header directly.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing identity"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), userIDKey{}, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func userIDFrom(c *gin.Context) string {
	if v, ok := c.Request.Context().Value(userIDKey{}).(string); ok {
		return v
	}
	return ""
}
