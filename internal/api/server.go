package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/KellenSmith/TaskMaster-sub001/docs"
	v1 "github.com/KellenSmith/TaskMaster-sub001/internal/api/handler/v1"
	"github.com/KellenSmith/TaskMaster-sub001/internal/api/middleware"
	"github.com/KellenSmith/TaskMaster-sub001/internal/cache"
	"github.com/KellenSmith/TaskMaster-sub001/internal/config"
	"github.com/KellenSmith/TaskMaster-sub001/internal/mailer"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository/dao"
	"github.com/KellenSmith/TaskMaster-sub001/internal/service"
	"github.com/KellenSmith/TaskMaster-sub001/internal/swish"
)

const eventCacheTTL = 5 * time.Minute

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB, redisClient redis.UniversalClient, m *mailer.SMTPMailer, swishClient *swish.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	eventCache := cache.New(redisClient, eventCacheTTL)

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db, eventCache, m)
	taskHandler := s.initTaskHandler(db)
	newsletterHandler := s.initNewsletterHandler(db, m)
	paymentHandler := s.initPaymentHandler(db, eventCache, m, swishClient)
	s.MountHandlers(authHandler, userHandler, eventHandler, taskHandler, newsletterHandler, paymentHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB, eventCache *cache.Cache, m *mailer.SMTPMailer) *v1.EventHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewEventService(eventRepo, userRepo, eventCache, m)
	pricing := service.NewTaskService(repository.NewTaskRepository(dao.NewTaskDAO(db)), eventRepo, s.Config.Tasks.FullEventTaskBurden)
	uSvc := service.NewUserService(userRepo)
	handler := v1.NewEventHandler(svc, pricing, uSvc)

	return handler
}

func (s *Server) initTaskHandler(db *gorm.DB) *v1.TaskHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewTaskService(repository.NewTaskRepository(dao.NewTaskDAO(db)), eventRepo, s.Config.Tasks.FullEventTaskBurden)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewTaskHandler(svc, uSvc)

	return handler
}

func (s *Server) initNewsletterHandler(db *gorm.DB, m *mailer.SMTPMailer) *v1.NewsletterHandler {
	repo := repository.NewNewsletterRepository(dao.NewNewsletterDAO(db))
	svc := service.NewNewsletterService(repo, m, s.Config.Newsletter.DefaultBatchSize)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewNewsletterHandler(svc, uSvc)

	return handler
}

func (s *Server) initPaymentHandler(db *gorm.DB, eventCache *cache.Cache, m *mailer.SMTPMailer, swishClient *swish.Client) *v1.PaymentHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventSvc := service.NewEventService(eventRepo, userRepo, eventCache, m)
	taskSvc := service.NewTaskService(repository.NewTaskRepository(dao.NewTaskDAO(db)), eventRepo, s.Config.Tasks.FullEventTaskBurden)
	svc := service.NewPaymentService(
		repository.NewPaymentRepository(dao.NewPaymentDAO(db)),
		eventRepo,
		eventSvc,
		taskSvc,
		swishClient,
		s.Config.Tasks.FullEventTaskBurden,
	)
	uSvc := service.NewUserService(userRepo)
	handler := v1.NewPaymentHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	taskHandler *v1.TaskHandler,
	newsletterHandler *v1.NewsletterHandler,
	paymentHandler *v1.PaymentHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.POST("/payments/swish/callback", paymentHandler.HandleSwishCallback)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.GET("/events", eventHandler.HandleListEvents)
		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.GET("/events/:eventID", eventHandler.HandleGetEvent)
		authed.POST("/events/:eventID/tickets", eventHandler.HandleCreateTicket)
		authed.GET("/events/:eventID/tickets", eventHandler.HandleListTickets)
		authed.GET("/events/:eventID/participants", eventHandler.HandleGetParticipants)
		authed.DELETE("/events/:eventID/participants", eventHandler.HandleLeaveEvent)
		authed.POST("/events/:eventID/reserve", eventHandler.HandleJoinReserveList)
		authed.DELETE("/events/:eventID/reserve", eventHandler.HandleLeaveReserveList)
		authed.GET("/events/:eventID/reserve/rank", eventHandler.HandleReserveRank)
		authed.POST("/tickets/:ticketID/join", eventHandler.HandleJoinEvent)
		authed.GET("/tickets/:ticketID/price", eventHandler.HandleTicketPrice)

		authed.POST("/events/:eventID/tasks", taskHandler.HandleCreateTask)
		authed.GET("/events/:eventID/tasks", taskHandler.HandleGetTasks)
		authed.POST("/tasks/:taskID/volunteer", taskHandler.HandleVolunteer)
		authed.DELETE("/tasks/:taskID/volunteer", taskHandler.HandleAbandon)
		authed.PATCH("/tasks/:taskID/status", taskHandler.HandleUpdateTaskStatus)

		authed.POST("/payments/checkout", paymentHandler.HandleCheckout)

		authed.POST("/newsletters", newsletterHandler.HandleCreateNewsletter)
	}

	scheduled := s.Router.Group(basePath, middleware.NewSchedulerGuard(s.Config.API.SchedulerSecret).Verify())
	{
		scheduled.POST("/newsletters/process", newsletterHandler.HandleProcessNewsletter)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "TaskMaster API"
	docs.SwaggerInfo.Description = "Volunteer organization management API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
