package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stayfinder/internal/app/commands"
	bookingapp "stayfinder/internal/app/handlers/booking"
	propertyapp "stayfinder/internal/app/handlers/properties"
	"stayfinder/internal/app/middleware"
	appoutbox "stayfinder/internal/app/outbox"
	"stayfinder/internal/app/policies"
	"stayfinder/internal/app/queries"
	authsvc "stayfinder/internal/app/services/auth"
	"stayfinder/internal/app/uow"
	domainauth "stayfinder/internal/domain/auth"
	domainavailability "stayfinder/internal/domain/availability"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
	domainuser "stayfinder/internal/domain/user"
	"stayfinder/internal/infra/broker/kafka"
	"stayfinder/internal/infra/config"
	mongodb "stayfinder/internal/infra/db/mongo"
	redisdb "stayfinder/internal/infra/db/redis"
	ginserver "stayfinder/internal/infra/http/gin"
	"stayfinder/internal/infra/obs"
	infraoutbox "stayfinder/internal/infra/outbox"
	"stayfinder/internal/infra/payments"
	"stayfinder/internal/infra/security"
	"stayfinder/internal/infra/storage/memory"
	"stayfinder/internal/infra/storage/s3"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}

	if err := app.loadPropertyFixtures(ctx, cfg.FixturesPath, logger); err != nil {
		logger.Warn("property fixtures load failed", "error", err, "path", cfg.FixturesPath)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.outboxWorker != nil {
		go func() {
			if err := app.outboxWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		app.close(logger)
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers     ginserver.Handlers
	outboxWorker *infraoutbox.Worker
	ready        func() error
	closers      []func() error

	properties   domainproperties.Repository
	availability domainavailability.Repository
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		app          application
		uowFactory   uow.Factory
		outboxStore  appoutbox.Outbox
		idStore      middleware.IdempotencyStore
		usersRepo    domainuser.Repository
		sessionStore domainauth.SessionStore
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		propertiesRepo := mongodb.NewPropertyRepository(client.DB)
		availabilityRepo := mongodb.NewAvailabilityRepository(client.DB)
		bookingsRepo := mongodb.NewBookingRepository(client.DB)
		usersRepo = mongodb.NewUserRepository(client.DB)
		idStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)

		store := infraoutbox.NewStore(client.DB)
		outboxStore = store

		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, fmt.Errorf("kafka producer: %w", err)
		}
		app.closers = append(app.closers, producer.Close)
		app.outboxWorker = &infraoutbox.Worker{
			Store:       store,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}

		uowFactory = mongodb.Factory{
			DB:               client.DB,
			PropertiesRepo:   propertiesRepo,
			AvailabilityRepo: availabilityRepo,
			BookingsRepo:     bookingsRepo,
			UsersRepo:        usersRepo,
		}
		app.properties = propertiesRepo
		app.availability = availabilityRepo
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
	default:
		propertiesRepo := memory.NewPropertyRepository()
		availabilityRepo := memory.NewAvailabilityRepository()
		bookingsRepo := memory.NewBookingRepository()
		memUsers := memory.NewUserRepository()
		usersRepo = memUsers
		idStore = memory.NewIdempotencyStore()
		outboxStore = memory.NewOutbox()

		uowFactory = memory.Factory{
			PropertiesRepo:   propertiesRepo,
			AvailabilityRepo: availabilityRepo,
			BookingsRepo:     bookingsRepo,
			UsersRepo:        memUsers,
		}
		app.properties = propertiesRepo
		app.availability = availabilityRepo
		app.ready = func() error { return nil }
	}

	if cfg.RedisAddr != "" {
		store := redisdb.NewSessionStore(cfg.RedisAddr, cfg.RedisPassword)
		sessionStore = store
	} else {
		sessionStore = memory.NewSessionStore()
	}

	authService := &authsvc.Service{
		Users:      usersRepo,
		Sessions:   sessionStore,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	var paymentsPort policies.PaymentsPort = payments.SimulatedGateway{Logger: logger}

	var uploader s3.Uploader = s3.NoopUploader{}
	if client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger); err != nil {
		logger.Warn("s3 uploader unavailable", "error", err)
	} else {
		uploader = client
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.PlaceBookingCommand{}.Key(), &bookingapp.PlaceBookingHandler{
		UoWFactory: uowFactory,
		Payments:   paymentsPort,
		Outbox:     outboxStore,
		Encoder:    encoder,
		FeeCents:   cfg.BookingFeeCents,
	})
	commands.RegisterHandler(commandBus, propertyapp.CreatePropertyCommand{}.Key(), &propertyapp.CreatePropertyHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, propertyapp.UpdatePropertyCommand{}.Key(), &propertyapp.UpdatePropertyHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, propertyapp.DeletePropertyCommand{}.Key(), &propertyapp.DeletePropertyHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, propertyapp.SearchQuery{}.Key(), &propertyapp.SearchHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, propertyapp.GetPropertyQuery{}.Key(), &propertyapp.GetPropertyHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, propertyapp.QuotePreviewQuery{}.Key(), &propertyapp.QuotePreviewHandler{
		UoWFactory: uowFactory,
		FeeCents:   cfg.BookingFeeCents,
	})
	queries.RegisterHandler(queryBus, bookingapp.GuestBookingsQuery{}.Key(), &bookingapp.GuestBookingsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.ListBookingsQuery{}.Key(), &bookingapp.ListBookingsHandler{UoWFactory: uowFactory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Property: ginserver.PropertyHandler{Queries: queryBusWithMiddleware},
		Booking:  ginserver.BookingHandler{Commands: commandBusWithMiddleware},
		Me:       ginserver.MeHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Auth:     &ginserver.AuthHandler{Service: authService, Logger: logger},
		Admin: ginserver.AdminHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Users:    usersRepo,
			Uploader: uploader,
			Logger:   logger,
		},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
	return app, nil
}

func (a application) close(logger *slog.Logger) {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			logger.Warn("shutdown cleanup failed", "error", err)
		}
	}
}

func (a application) loadPropertyFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	if a.properties == nil || a.availability == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("property fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures []propertyFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range fixtures {
		if existing, err := a.properties.ByID(ctx, domainproperties.PropertyID(fx.ID)); err == nil && existing != nil {
			continue
		}
		property, err := domainproperties.NewProperty(domainproperties.CreateParams{
			ID:               domainproperties.PropertyID(fx.ID),
			Title:            fx.Title,
			Description:      fx.Description,
			Location:         fx.Location,
			Images:           append([]string(nil), fx.Images...),
			NightlyRateCents: fx.NightlyRateCents,
			Currency:         fx.Currency,
			Rating:           fx.Rating,
			ReviewCount:      fx.ReviewCount,
			Amenities:        append([]string(nil), fx.Amenities...),
			Bedrooms:         fx.Bedrooms,
			Bathrooms:        fx.Bathrooms,
			MaxGuests:        fx.MaxGuests,
			Featured:         fx.Featured,
			Host: domainproperties.Host{
				ID:     fx.Host.ID,
				Name:   fx.Host.Name,
				Image:  fx.Host.Image,
				Joined: parseFixtureTime(fx.Host.Joined, now),
			},
			Now: now,
		})
		if err != nil {
			logger.Error("fixture invalid", "property_id", fx.ID, "error", err)
			continue
		}
		property.ClearEvents()
		if err := a.properties.Save(ctx, property); err != nil {
			logger.Error("cannot store fixture property", "property_id", fx.ID, "error", err)
			continue
		}

		avail := domainavailability.NewMap(fx.ID)
		for _, raw := range fx.BookableDates {
			date, err := calendar.Parse(raw)
			if err != nil {
				logger.Warn("fixture date skipped", "property_id", fx.ID, "date", raw, "error", err)
				continue
			}
			avail.SetBookable(date, true)
		}
		if err := a.availability.Save(ctx, avail); err != nil {
			logger.Error("cannot store fixture availability", "property_id", fx.ID, "error", err)
			continue
		}
		logger.Info("property fixture imported", "property_id", fx.ID)
	}
	return nil
}

type propertyFixture struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Location         string      `json:"location"`
	Images           []string    `json:"images"`
	NightlyRateCents int64       `json:"nightly_rate_cents"`
	Currency         string      `json:"currency"`
	Rating           float64     `json:"rating"`
	ReviewCount      int         `json:"review_count"`
	Amenities        []string    `json:"amenities"`
	Bedrooms         int         `json:"bedrooms"`
	Bathrooms        int         `json:"bathrooms"`
	MaxGuests        int         `json:"max_guests"`
	Featured         bool        `json:"featured"`
	Host             fixtureHost `json:"host"`
	BookableDates    []string    `json:"bookable_dates"`
}

type fixtureHost struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Joined string `json:"joined"`
}

func parseFixtureTime(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	return fallback
}
