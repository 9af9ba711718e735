package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/logging"
	"github.com/rashid4567/recruitiq/internal/server/auth"
	"github.com/rashid4567/recruitiq/internal/server/config"
	"github.com/rashid4567/recruitiq/internal/server/models"
	"github.com/rashid4567/recruitiq/internal/server/services"
)

// Narrow views of the service layer, so handlers can be exercised against
// fakes.
type authService interface {
	Login(ctx context.Context, email string, password []byte) (*services.TokenPair, *models.User, error)
	CompleteRegistration(ctx context.Context, email string, payload *models.RegistrationPayload) (*services.TokenPair, *models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyAccessToken(tokenString string) (*auth.Claims, error)
}

type otpService interface {
	Issue(ctx context.Context, email string, role common.Role, payload models.RegistrationPayload) (time.Time, error)
	Verify(ctx context.Context, email, code string) (*models.RegistrationPayload, error)
}

type oauthService interface {
	CompleteLogin(ctx context.Context, bridge services.IdentityResolver, credential string, intendedRole *common.Role) (*services.TokenPair, *models.User, error)
}

type linkedInProvider interface {
	services.IdentityResolver
	AuthCodeURL(state string) string
}

type profileService interface {
	Get(ctx context.Context, userID string, role common.Role) (*models.Profile, error)
	Complete(ctx context.Context, userID string, role common.Role, p *models.Profile) error
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

type storageService interface {
	GetResumeUploadURL(ctx context.Context) (string, string, error)
	GetResumeDownloadURL(ctx context.Context, key string) (string, error)
}

// Services bundles the dependencies of the HTTP layer.
type Services struct {
	Auth     authService
	Otp      otpService
	OAuth    oauthService
	Google   services.IdentityResolver
	LinkedIn linkedInProvider
	Profiles profileService
	Storage  storageService
}

// Server is the public HTTP endpoint.
type Server struct {
	cfg *config.Config
	log logging.Logger

	auth     authService
	otp      otpService
	oauth    oauthService
	google   services.IdentityResolver
	linkedin linkedInProvider
	profiles profileService
	storage  storageService

	httpServer *http.Server
}

// NewServer wires the router. It does not start listening.
func NewServer(cfg *config.Config, log logging.Logger, svc Services) *Server {
	s := &Server{
		cfg:      cfg,
		log:      log,
		auth:     svc.Auth,
		otp:      svc.Otp,
		oauth:    svc.OAuth,
		google:   svc.Google,
		linkedin: svc.LinkedIn,
		profiles: svc.Profiles,
		storage:  svc.Storage,
	}
	s.httpServer = &http.Server{
		Addr:    cfg.EndpointAddr,
		Handler: s.router(),
	}
	return s
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/send-otp", s.handleSendOtp)
		authGroup.POST("/verify-otp", s.handleVerifyOtp)
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/refresh", s.handleRefresh)
		authGroup.POST("/logout", s.handleLogout)
		authGroup.POST("/google/login", s.handleGoogleLogin)
		authGroup.GET("/linkedin", s.handleLinkedInRedirect)
		authGroup.GET("/linkedin/callback", s.handleLinkedInCallback)
	}

	profileGroup := r.Group("/profile", s.requireAuth())
	{
		profileGroup.GET("", s.handleGetProfile)
		profileGroup.POST("/complete", s.handleCompleteProfile)

		resumeGroup := profileGroup.Group("/resume", requireRole(common.RoleCandidate))
		resumeGroup.POST("/upload-url", s.handleResumeUploadURL)
		resumeGroup.GET("/download-url", s.handleResumeDownloadURL)
	}

	adminGroup := r.Group("/admin", s.requireAuth(), requireRole(common.RoleAdmin))
	{
		adminGroup.GET("/users", s.handleListUsers)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "http server listening", "addr", s.cfg.EndpointAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
