package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/docs"
	v1 "github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/middleware"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/config"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/mapsync"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository/dao"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	Hub    *mapsync.Hub
}

// Services are the application services the HTTP layer is mounted on.
type Services struct {
	Map      *service.MapService
	Market   *service.MarketService
	Calendar *service.CalendarService
	Signup   *service.SignupService
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	svcs, err := NewServices(conf.Market, db)
	if err != nil {
		return nil, err
	}

	return NewServerWithServices(conf, svcs), nil
}

// NewServices wires the repositories and services on top of db.
func NewServices(conf *config.MarketConfig, db *gorm.DB) (*Services, error) {
	loc, err := conf.Location()
	if err != nil {
		return nil, err
	}

	marketRepo := repository.NewMarketRepository(dao.NewMarketDAO(db))
	signupRepo := repository.NewSignupRepository(dao.NewSignupDAO(db))

	anchor, err := service.NewAnchorResolver(conf.AnchorPolicy, marketRepo, conf.AnchorLookaheadWeeks)
	if err != nil {
		return nil, fmt.Errorf("service.NewAnchorResolver -> %w", err)
	}

	static := service.NewStaticCache(marketRepo, service.StaticCacheConfig{
		Limit:         conf.StaticFetchLimit,
		Retries:       conf.StaticFetchRetries,
		RetryInterval: conf.StaticRetryInterval,
	})

	return &Services{
		Map:      service.NewMapService(service.NewAttendanceService(marketRepo), static, anchor, marketRepo, loc),
		Market:   service.NewMarketService(marketRepo),
		Calendar: service.NewCalendarService(marketRepo, signupRepo, static),
		Signup:   service.NewSignupService(signupRepo),
	}, nil
}

func NewServerWithServices(conf *config.AppConfig, svcs *Services) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		Hub:    mapsync.NewHub(),
	}

	s.MountMiddlewares()
	s.MountHandlers(
		v1.NewMapHandler(svcs.Map),
		v1.NewMapSyncHandler(svcs.Map, s.Hub, conf.Market.SearchDebounce),
		v1.NewMarketHandler(svcs.Market),
		v1.NewCalendarHandler(svcs.Calendar),
		v1.NewSignupHandler(svcs.Signup),
	)

	return s
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	mapHandler *v1.MapHandler,
	mapSyncHandler *v1.MapSyncHandler,
	marketHandler *v1.MarketHandler,
	calendarHandler *v1.CalendarHandler,
	signupHandler *v1.SignupHandler,
) {
	const basePath = "/api/v1"

	api := s.Router.Group(basePath)
	{
		api.GET("/market-dates", mapHandler.HandleListMarketDates)
		api.GET("/market-dates/anchor", mapHandler.HandleGetAnchorDate)
		api.GET("/map/data", mapHandler.HandleGetMapData)

		// Map sync
		api.GET("/map/ws", mapSyncHandler.HandleWebSocket)
		api.POST("/map/sessions/:sessionID/search", mapSyncHandler.HandleSearch)
		api.POST("/map/sessions/:sessionID/highlight", mapSyncHandler.HandleSetHighlight)
		api.DELETE("/map/sessions/:sessionID/highlight", mapSyncHandler.HandleClearHighlight)

		api.GET("/vendors", marketHandler.HandleListVendors)
		api.POST("/vendors", marketHandler.HandleCreateVendor)
		api.GET("/attendance", marketHandler.HandleListAttendance)
		api.POST("/attendance", marketHandler.HandleAssignStall)
		api.DELETE("/attendance/:attendanceID", marketHandler.HandleRemoveAssignment)

		api.GET("/calendar", calendarHandler.HandleGetCalendar)

		api.POST("/signups", signupHandler.HandleSubmitSignup)
		api.GET("/signups", signupHandler.HandleListSignups)
		api.POST("/signups/:signupID/approve", signupHandler.HandleApproveSignup)
		api.POST("/signups/:signupID/reject", signupHandler.HandleRejectSignup)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Dubuque Farmers' Market API"
	docs.SwaggerInfo.Description = "Vendor map, stall assignments and signups for the Saturday market."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
