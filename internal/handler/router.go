package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fleetrent/internal/domain/user"
	"fleetrent/internal/handler/api"
	"fleetrent/internal/handler/middleware"
	"fleetrent/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	availabilityHandler *api.AvailabilityHandler,
	blockHandler *api.BlockHandler,
	bookingHandler *api.BookingHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, availabilityHandler, blockHandler, bookingHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	availabilityHandler *api.AvailabilityHandler,
	blockHandler *api.BlockHandler,
	bookingHandler *api.BookingHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		listings := apiGroup.Group("/listings/:type/:id")
		listings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(listings, []route{
				{Method: http.MethodGet, Path: "/availability", Handler: availabilityHandler.CheckAvailability},
				{Method: http.MethodGet, Path: "/blocks", Handler: availabilityHandler.ListBlocks},
				{Method: http.MethodGet, Path: "/recurring-blocks", Handler: availabilityHandler.ListPatterns},
				{Method: http.MethodGet, Path: "/analytics", Handler: availabilityHandler.GetAnalytics},
				{Method: http.MethodGet, Path: "/calendar.ics", Handler: availabilityHandler.ExportCalendar},
			})
		}

		providerOnly := authMiddleware.RequireRole(user.RoleProvider)

		blocks := apiGroup.Group("/blocks")
		blocks.Use(authMiddleware.RequireAuth())
		{
			addRoutes(blocks, []route{
				{Method: http.MethodPost, Path: "", Handler: blockHandler.CreateBlock, Mw: []gin.HandlerFunc{providerOnly}},
				{Method: http.MethodPost, Path: "/bulk", Handler: blockHandler.CreateBlocks, Mw: []gin.HandlerFunc{providerOnly}},
				{Method: http.MethodDelete, Path: "/:id", Handler: blockHandler.DeleteBlock, Mw: []gin.HandlerFunc{providerOnly}},
			})
		}

		recurring := apiGroup.Group("/recurring-blocks")
		recurring.Use(authMiddleware.RequireAuth())
		{
			addRoutes(recurring, []route{
				{Method: http.MethodPost, Path: "", Handler: blockHandler.CreateRecurringPattern, Mw: []gin.HandlerFunc{providerOnly}},
				{Method: http.MethodPatch, Path: "/:id", Handler: blockHandler.UpdateRecurringPattern, Mw: []gin.HandlerFunc{providerOnly}},
				{Method: http.MethodDelete, Path: "/:id", Handler: blockHandler.DeleteRecurringPattern, Mw: []gin.HandlerFunc{providerOnly}},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleRenter)}},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.ListBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
