package router

import (
	"github.com/gin-gonic/gin"

	"github.com/francescogabrieli/budget-sociale/internal/config"
	"github.com/francescogabrieli/budget-sociale/internal/http/handlers"
	"github.com/francescogabrieli/budget-sociale/internal/http/middleware"
	"github.com/francescogabrieli/budget-sociale/internal/interface/http/handler"
	"github.com/francescogabrieli/budget-sociale/internal/interface/http/response"
	"github.com/francescogabrieli/budget-sociale/internal/metrics"
	"github.com/francescogabrieli/budget-sociale/internal/service"
)

// Handlers набор хэндлеров API. WS и Health могут быть nil.
type Handlers struct {
	Health   *handlers.HealthHandler
	WS       *handlers.WSHandler
	Auth     *handler.AuthHandler
	Round    *handler.RoundHandler
	Proposal *handler.ProposalHandler
	Vote     *handler.VoteHandler
	Approval *handler.ApprovalHandler
}

func SetupRouter(
	cfg *config.Config,
	m *metrics.Metrics,
	tokenManager *service.TokenManager,
	h Handlers,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(m))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "маршрут не найден")
	})

	if h.Health != nil {
		r.GET("/health", h.Health.Health)
	}
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api")

	// Публичные маршруты
	api.GET("/phase", h.Round.GetPhase)
	api.POST("/approvals", h.Approval.ComputeApprovals)
	if h.WS != nil {
		api.GET("/ws", h.WS.Handle)
	}

	authGroup := api.Group("/auth")
	authGroup.POST("/login", middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod), h.Auth.Login)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/auth/me", h.Auth.Me)

		protected.GET("/round", h.Round.GetRound)
		protected.GET("/budget", h.Round.GetBudget)
		protected.PUT("/budget", h.Round.SetBudget)
		protected.POST("/phase/advance", h.Round.AdvancePhase)
		protected.POST("/reset", h.Round.Reset)

		protected.GET("/proposals", h.Proposal.ListProposals)
		protected.POST("/proposals", h.Proposal.CreateProposal)
		protected.PUT("/proposals/:id", middleware.IDParam("id"), h.Proposal.UpdateProposal)
		protected.DELETE("/proposals/:id", middleware.IDParam("id"), h.Proposal.DeleteProposal)

		protected.POST("/proposals/:id/vote", middleware.IDParam("id"), h.Vote.Vote)
		protected.DELETE("/proposals/:id/vote", middleware.IDParam("id"), h.Vote.DeleteVote)

		protected.GET("/users/:userId/proposals", middleware.IDParam("userId"), h.Proposal.ListUserProposals)
		protected.GET("/users/:userId/votes", middleware.IDParam("userId"), h.Vote.ListUserVotes)
	}

	return r
}
