// Package rest exposes the HTTP API: public reads, token-gated registration,
// and JWT-protected mutations, all answering with JSON envelopes.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"classtrack-server/internal/logging"
	"classtrack-server/internal/server/auth"
	"classtrack-server/internal/server/models"
)

// UserProvider is the slice of the user service the handlers need.
type UserProvider interface {
	Register(ctx context.Context, email, password, registerToken string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// StudentProvider is the slice of the student service the handlers need.
type StudentProvider interface {
	List(ctx context.Context) ([]*models.Student, error)
	Create(ctx context.Context, student *models.Student) (*models.Student, error)
	Update(ctx context.Context, id string, upd *models.StudentUpdate) (*models.Student, error)
	Delete(ctx context.Context, id string) (*models.Student, error)
	AddNote(ctx context.Context, studentID string, note models.Note) (*models.Student, error)
	UpdateNote(ctx context.Context, studentID, noteID string, note models.Note) (*models.Student, error)
	DeleteNote(ctx context.Context, studentID, noteID string) (*models.Student, error)
}

// RestServer serves the HTTP API.
type RestServer struct {
	address   string
	logger    logging.Logger
	users     UserProvider
	students  StudentProvider
	jwtSecret []byte
}

// NewRestServer constructs a RestServer bound to the given address.
func NewRestServer(address string, l logging.Logger, us UserProvider, ss StudentProvider, secretKey string) *RestServer {
	return &RestServer{
		address:   address,
		logger:    l.With("module", "rest_server"),
		users:     us,
		students:  ss,
		jwtSecret: []byte(secretKey),
	}
}

// requireAuth verifies the bearer credential before any protected handler
// runs. Missing, malformed, or expired credentials are rejected with 403 and
// the error envelope; no handler logic executes.
func (s *RestServer) requireAuth() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: s.jwtSecret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return respondError(c, http.StatusForbidden, "Forbidden")
		},
	})
}

// newEcho builds the router with all routes and middleware attached.
func (s *RestServer) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info(c.Request().Context(), "request",
				"method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	authRequired := s.requireAuth()

	e.GET("/api/health", s.Health)

	e.POST("/api/users/register", s.Register)
	e.POST("/api/users/login", s.Login)

	e.GET("/api/students", s.ListStudents)
	e.POST("/api/students", s.CreateStudent, authRequired)
	e.PUT("/api/students/:id", s.UpdateStudent, authRequired)
	e.DELETE("/api/students/:id", s.DeleteStudent, authRequired)

	e.POST("/api/students/:id/notes", s.AddNote, authRequired)
	e.PUT("/api/students/:studentId/notes/:noteId", s.UpdateNote, authRequired)
	e.DELETE("/api/students/:studentId/notes/:noteId", s.DeleteNote, authRequired)

	return e
}

// Health reports liveness.
func (s *RestServer) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *RestServer) Run(ctx context.Context) error {
	e := s.newEcho()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := e.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
