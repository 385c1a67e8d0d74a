package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"

	"github.com/hackernews-clone/backend/internal/database"
	"github.com/hackernews-clone/backend/internal/graph"
	"github.com/hackernews-clone/backend/internal/middleware"
)

type Server struct {
	db     database.Service
	schema *graphql.Schema
}

// New wires the resolvers for the given database into a server instance.
func New(db database.Service) *Server {
	resolver := graph.NewResolver(db.GetDB())
	schema := graphql.MustParseSchema(graph.Schema, resolver)

	return &Server{
		db:     db,
		schema: schema,
	}
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	newServer := New(database.New())

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server. No read/write timeouts: subscriptions hold the
	// websocket open indefinitely.
	server := &http.Server{
		Addr:        "0.0.0.0:" + port,
		Handler:     router,
		IdleTimeout: time.Minute,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// GraphQL endpoint: plain HTTP for queries/mutations, websocket upgrade
	// on the same path for subscriptions.
	gqlHandler := graphqlws.NewHandlerFunc(s.schema, &relay.Handler{Schema: s.schema})
	r.POST("/graphql", middleware.Auth(), gin.WrapH(gqlHandler))
	r.GET("/graphql", gin.WrapH(gqlHandler))

	// Interactive playground
	r.GET("/playground", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(playgroundHTML))
	})

	return r
}
