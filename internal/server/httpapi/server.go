// Package httpapi exposes the BlogKeeper services over HTTP. Handlers stay
// thin: they bind JSON, pull the authenticated identity from the request
// context and translate service errors to status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	router     *gin.Engine
	server     *http.Server
	logger     logging.Logger
	authorizer *auth.Authorizer
	users      *services.UserService
	blogs      *services.BlogService
	posts      *services.PostService
}

func NewServer(cfg *config.Config, l logging.Logger, authorizer *auth.Authorizer,
	us *services.UserService, bs *services.BlogService, ps *services.PostService) *Server {

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		router:     router,
		logger:     l.With("module", "http_server"),
		authorizer: authorizer,
		users:      us,
		blogs:      bs,
		posts:      ps,
		server: &http.Server{
			Addr:         cfg.EndpointAddrHTTP,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "invalid http method"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)
	s.router.GET("/authz", s.authorizeGateway)

	api := s.router.Group("/api")
	api.POST("/users", s.registerUser)

	authed := api.Group("", s.authRequired())

	authed.GET("/users", s.listUsers)
	authed.GET("/users/:id", s.getUser)
	authed.PUT("/users", s.updateUser)
	authed.DELETE("/users", s.deleteUser)

	authed.POST("/blogs", s.createBlog)
	authed.GET("/blogs", s.listBlogs)
	authed.GET("/blogs/:id", s.getBlog)
	authed.PUT("/blogs/:id", s.updateBlog)
	authed.DELETE("/blogs/:id", s.deleteBlog)
	authed.PUT("/blogs/:id/subscription", s.subscribe)
	authed.DELETE("/blogs/:id/subscription", s.unsubscribe)

	authed.POST("/blogs/:id/posts", s.createPost)
	authed.GET("/blogs/:id/posts", s.listPosts)
	authed.GET("/posts/:id", s.getPost)
	authed.PUT("/posts/:id", s.updatePost)
	authed.DELETE("/posts/:id", s.deletePost)
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// authorizeGateway is the contract endpoint for front-door gateways: it runs
// the authorization decision for the supplied Authorization header and
// returns the verdict as a policy document scoped to the requested resource
// pattern. Allow and Deny are both 200 responses; the effect lives in the
// document.
func (s *Server) authorizeGateway(c *gin.Context) {
	resource := c.DefaultQuery("resource", "*")
	verdict := s.authorizer.Authorize(c.Request.Context(), c.GetHeader("Authorization"))
	c.JSON(http.StatusOK, verdict.GatewayResponse(resource))
}
