package server

import (
	"errors"

	"notes-server/controllers"
	"notes-server/middlewares"
	"notes-server/repository"
	"notes-server/routes"
	service "notes-server/services"
	"notes-server/utils"

	fiberprometheus "github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
)

// Dependencies is everything the HTTP app needs. RequestLogs may be nil.
type Dependencies struct {
	Notes       repository.NoteRepositoryInterface
	Users       repository.UserRepositoryInterface
	Titles      repository.TitleRepositoryInterface
	Sessions    repository.SessionRepositoryInterface
	RequestLogs repository.RequestLogRepositoryInterface
	Issuer      *utils.TokenIssuer
	BcryptCost  int
	Logger      zerolog.Logger
	ServiceName string
	CORSOrigins string
	// Metrics registers /metrics on the default Prometheus registry, which only
	// tolerates one app per process.
	Metrics bool
}

// App is the assembled HTTP server together with its change feed hub.
type App struct {
	*fiber.App
	Hub *service.NotesHub
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func NewApp(deps Dependencies) *App {
	logger := deps.Logger
	hub := service.NewNotesHub(logger.With().Str("component", "hub").Logger())

	authService := service.NewAuthService(deps.Users, deps.Sessions, deps.Issuer, deps.BcryptCost)
	noteService := service.NewNoteService(deps.Notes, hub, logger)
	titleService := service.NewTitleService(deps.Titles)

	authController := controllers.NewAuthController(authService, logger)
	noteController := controllers.NewNoteController(noteService, logger)
	titleController := controllers.NewTitleController(titleService, logger)
	wsController := controllers.NewWebSocketController(hub, logger)

	app := fiber.New(fiber.Config{
		AppName:               deps.ServiceName,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	if deps.Metrics {
		p := fiberprometheus.New(deps.ServiceName)
		p.RegisterAt(app, "/metrics")
		app.Use(p.Middleware)
	}

	origins := deps.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))

	app.Use(middleware.RequestLogger(logger, deps.RequestLogs))

	auth := middleware.JWTParser(authService, false)
	wsAuth := middleware.JWTParser(authService, true)

	routes.AuthRoutes(app, authController, auth)
	routes.NoteRoutes(app, noteController, auth)
	routes.TitleRoutes(app, titleController, auth)
	routes.WebSocketRoutes(app, wsController, wsAuth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "UP",
		})
	})

	return &App{App: app, Hub: hub}
}
