package api

import (
	"net/http"
	"time"

	"codearena/internal/api/handler"
	"codearena/internal/app/service"
	"codearena/internal/common/security"
	"codearena/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

type Dependencies struct {
	AuthService       *service.AuthService
	SubmissionService *service.SubmissionService

	Users         repository.UserRepository
	Problems      repository.ProblemRepository
	TestCases     repository.TestCaseRepository
	Contests      repository.ContestRepository
	Announcements repository.AnnouncementRepository
	Submissions   repository.SubmissionRepository
	Collections   repository.CollectionRepository
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a bearer token when present and puts claims in context.
	// Route groups that require auth add middleware.Authenticator on top.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(deps.AuthService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		v1.Route("/users", handler.NewUserHandler(deps.Users).RegisterRoutes)
		v1.Route("/problems", handler.NewProblemHandler(deps.Problems).RegisterRoutes)
		v1.Route("/testcases", handler.NewTestCaseHandler(deps.TestCases).RegisterRoutes)
		v1.Route("/contests", handler.NewContestHandler(deps.Contests).RegisterRoutes)
		v1.Route("/announcements", handler.NewAnnouncementHandler(deps.Announcements).RegisterRoutes)
		v1.Route("/submissions", handler.NewSubmissionHandler(deps.SubmissionService, deps.Submissions).RegisterRoutes)
		v1.Route("/collections", handler.NewCollectionHandler(deps.Collections).RegisterRoutes)
		v1.Route("/webhook", handler.NewWebhookHandler(deps.SubmissionService).RegisterRoutes)
	})

	return r
}
