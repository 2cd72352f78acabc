package router

import (
	"context"
	"net/http"
	"strings"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initializing")

	// 1. Open DB pool
	dsn := cfg.DBConnectionString
	// Local Supabase runs without SSL; hosted connection strings carry
	// their own sslmode.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create DB pool")
		return nil, nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 2. Initialize S3 client for the storage bucket
	s3Config, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load S3 config")
		return nil, nil, err
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	// 3. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 4. Initialize repositories & services & handlers
	profileRepo := repository.NewProfileRepo(pool)
	planRepo := repository.NewPlanRepo(pool)
	subRepo := repository.NewSubscriptionRepo(pool)
	projectRepo := repository.NewProjectRepo(pool)

	// An empty generation URL means no backend is configured: the
	// executor uses the simulation path instead.
	var genClient service.GenerationClient
	if cfg.GenerationAPIURL != "" {
		genClient = service.NewGenerationClient(cfg.GenerationAPIURL, logger)
	} else {
		logger.Warn().Msg("GENERATION_API_URL not set, using simulated generation")
	}

	authSvc := service.NewAuthService(cfg.SupabaseURL, cfg.SupabaseAnonKey, logger)
	profileSvc := service.NewProfileService(profileRepo)
	subSvc := service.NewSubscriptionService(subRepo, planRepo, logger)
	projectSvc := service.NewProjectService(projectRepo, logger)
	genSvc := service.NewGenerationService(subRepo, projectRepo, genClient, service.NewJobTracker(), logger)
	adminSvc := service.NewAdminService(profileRepo, subRepo, planRepo, logger)
	storageSvc := service.NewStorageService(s3Client, cfg.S3Bucket, cfg.SupabaseURL, logger)

	authHandler := handler.NewAuthHandler(authSvc, validate, logger)
	profileHandler := handler.NewProfileHandler(profileSvc, logger)
	subHandler := handler.NewSubscriptionHandler(subSvc, logger)
	projectHandler := handler.NewProjectHandler(projectSvc, logger)
	genHandler := handler.NewGenerationHandler(genSvc, logger)
	adminHandler := handler.NewAdminHandler(adminSvc, validate, logger)
	uploadHandler := handler.NewUploadHandler(storageSvc, logger)

	// 5. Initialize middleware
	authMiddleware := middleware.Auth(cfg.JWTSecret, logger)

	// 6. Create ServeMux router
	apiV1Mux := http.NewServeMux()
	authHandler.RegisterRoutes(apiV1Mux)
	profileHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	subHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	projectHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	genHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	adminHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	uploadHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// 7. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Allow all origins for development
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.Logger(logger)(c.Handler(mux)), pool, nil
}

// removeDisableGzip is a workaround for S3 signature errors with some
// S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
