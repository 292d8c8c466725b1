package server

import (
	"errors"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/auth"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/config"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/engagement"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/mailer"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/media"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/monitoring"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/notification"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/post"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/profile"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(monitoring.Middleware())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

// Close releases the stream hub's redis subscription.
func (s *Server) Close() error {
	return s.Stream.Close()
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", monitoring.Handler())


	outbox := mailer.NewOutbox(s.Redis, s.Cfg.MailQueue, s.Cfg.ResetURL)
	mediaSvc := media.NewService(s.DB, media.NewCloudUploader(s.Cfg.UploadURL, s.Cfg.UploadPreset, s.Cfg.UploadTimeout))
	postSvc := post.NewService(s.DB, mediaSvc)
	notificationSvc := notification.NewService(s.DB, s.Stream)

	users := s.App.Group("/users")
	posts := s.App.Group("/posts")

	authSvc := auth.NewService(s.Cfg.JWTSecret, s.Cfg.TokenTTL, s.DB, outbox)
	jwtMiddleware := authSvc.Middleware()
	ownerOnly := authSvc.RequireSelf("username")

	auth.RegisterRoutes(users, authSvc)
	profile.RegisterRoutes(users, profile.NewService(s.DB), jwtMiddleware)
	engagement.RegisterRoutes(posts, users, engagement.NewService(s.DB, postSvc, notificationSvc), jwtMiddleware)
	post.RegisterRoutes(posts, postSvc, jwtMiddleware)
	notification.RegisterRoutes(s.App.Group("/notifications"), notificationSvc, jwtMiddleware, ownerOnly)
	media.RegisterRoutes(s.App.Group("/media"), mediaSvc, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, jwtMiddleware, ownerOnly)
}

// errorHandler renders every error as {"ERROR": msg}. Errors that are not
// *fiber.Error are treated as 500s.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{"method": c.Method(), "path": c.Path()}).Error("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"ERROR": err.Error()})
}
