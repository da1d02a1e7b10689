package main

import (
	"twoclouds/cmd/internal/config"
	"twoclouds/cmd/internal/domain/sqlite"
	"twoclouds/cmd/internal/domain/sqlite/repository"
	"twoclouds/cmd/internal/identity"
	cognitoclient "twoclouds/cmd/internal/integration/aws/cognito"
	"twoclouds/cmd/internal/routes"
	"twoclouds/cmd/internal/service"
	"twoclouds/cmd/internal/utils"
	"twoclouds/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	cfg := config.New()
	if cfg.TokenSecret == "" {
		log.Fatal("TOKEN_SECRET must be set")
	}
	utils.ConfigureTokenSecret([]byte(cfg.TokenSecret))

	// Init SQLite
	db, err := sqlite.Init(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	callRepo := repository.NewCallRequestRepository(db)
	eventRepo := repository.NewEventRepository(db)
	letterRepo := repository.NewLetterRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Identity provider: a hosted Cognito pool, or the local one for a
	// self-contained two-person deployment.
	var provider identity.Provider
	switch cfg.AuthProvider {
	case "cognito":
		provider, err = cognitoclient.InitCognitoClient()
		if err != nil {
			log.Fatal("failed to initialize cognito client", err)
		}
	case "local":
		provider = identity.NewLocalProvider(userRepo)
	default:
		log.Fatal("unknown AUTH_PROVIDER, expected cognito or local")
	}

	// Getting services
	userService := service.NewUserService(userRepo, validate, provider)
	callService := service.NewCallRequestService(callRepo, eventRepo, userRepo, validate)
	eventService := service.NewEventService(eventRepo, userRepo, validate)
	letterService := service.NewLetterService(letterRepo, userRepo, validate)
	settingsService := service.NewSettingsService(settingsRepo, validate)

	// Getting routes
	userRoutes := routes.NewUserDefault(userService)
	callRoutes := routes.NewCallRequestDefault(callService)
	eventRoutes := routes.NewEventDefault(eventService)
	letterRoutes := routes.NewLetterDefault(letterService)
	settingsRoutes := routes.NewSettingsDefault(settingsService)

	e := echo.New()
	e.Use(middleware.CORS())

	// Call requests
	e.GET("/api/call-requests", callRoutes.GetCallRequests)
	e.POST("/api/call-requests", callRoutes.CreateCallRequest)
	e.POST("/api/call-requests/:id/propose-times", callRoutes.ProposeNewTimes)
	e.POST("/api/call-requests/:id/accept", callRoutes.AcceptCallRequest)
	e.POST("/api/call-requests/:id/decline", callRoutes.DeclineCallRequest)
	e.POST("/api/call-requests/:id/materialize", callRoutes.MaterializeCallRequest)

	// Events
	e.GET("/api/events", eventRoutes.GetEvents)
	e.POST("/api/events", eventRoutes.CreateEvent)
	e.PUT("/api/events/:id", eventRoutes.UpdateEvent)
	e.DELETE("/api/events/:id", eventRoutes.DeleteEvent)

	// Pseudo-entity "Calendar" for the month grid
	e.GET("/api/calendar", eventRoutes.GetCalendar)

	// Letters
	e.GET("/api/letters", letterRoutes.GetLetters)
	e.POST("/api/letters", letterRoutes.SendLetter)
	e.POST("/api/letters/:id/open", letterRoutes.OpenLetter)
	e.GET("/api/letters/unread-count", letterRoutes.GetUnreadCount)

	// Countdown
	e.GET("/api/countdown", settingsRoutes.GetCountdown)
	e.PUT("/api/settings/reunion", settingsRoutes.UpdateReunionDate)

	// Users
	e.GET("/api/users", userRoutes.GetUsers)
	e.GET("/api/users/:id", userRoutes.GetUser)
	e.POST("/api/users", userRoutes.CreateUser)
	e.POST("/api/users/login", userRoutes.CreateLogin)
	e.POST("/api/users/verify", userRoutes.VerifySignup)

	err = e.Start(cfg.ListenAddr)
	if err != nil {
		e.Logger.Fatal(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nodupes", validators.NoDupes)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
	_ = validate.RegisterValidation("iso8601", validators.IsIso8601)
}
