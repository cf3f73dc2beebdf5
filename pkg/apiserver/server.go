package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/innovatech/employee-portal/pkg/apiserver/handlers"
	"github.com/innovatech/employee-portal/pkg/apiserver/middleware"
	"github.com/innovatech/employee-portal/pkg/config"
	"github.com/innovatech/employee-portal/pkg/eventbus"
	"github.com/innovatech/employee-portal/pkg/store"
)

type Server struct {
	router      *gin.Engine
	employees   store.EmployeeStore
	credentials store.CredentialStore
	publisher   eventbus.Publisher
	cfg         *config.Config
	logger      *zap.Logger
}

func NewServer(employees store.EmployeeStore, credentials store.CredentialStore, publisher eventbus.Publisher, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		employees:   employees,
		credentials: credentials,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(s.cfg.CORS.Origins()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(s.employees, s.credentials, s.cfg.Auth.EmailAllowList(), s.logger)
	r.POST("/auth/login", authHandler.Login)

	employeeHandler := handlers.NewEmployeeHandler(s.employees, s.publisher, s.logger)
	r.POST("/employees", employeeHandler.Create)
	r.GET("/employees", employeeHandler.List)
	r.GET("/employees/:id", employeeHandler.Get)
	r.PUT("/employees/:id", employeeHandler.Update)
	r.DELETE("/employees/:id", employeeHandler.Delete)

	s.router = r
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
