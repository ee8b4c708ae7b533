package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"customs/cmd"
	httpin "customs/internal/adapters/in/http"
	"customs/internal/adapters/out/postgres/statusrepo"
	"customs/internal/adapters/out/postgres/trackrepo"
	"customs/internal/adapters/out/postgres/transactionrepo"
	"customs/internal/core/application/usecases/commands"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db := mustConnectDB(configs)
	mustMigrateDB(db)

	app, err := cmd.NewCompositionRoot(configs, db, logger)
	if err != nil {
		log.Fatalf("Error wiring application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		VoyageServiceURL: goDotEnvVariable("VOYAGE_SERVICE_URL"),
		CertificateDir:   goDotEnvVariable("CERTIFICATE_DIR"),
		AttachmentDir:    goDotEnvVariable("ATTACHMENT_DIR"),

		AfipEndpointTesting:    goDotEnvVariable("AFIP_ENDPOINT_TESTING"),
		AfipEndpointProduction: goDotEnvVariable("AFIP_ENDPOINT_PRODUCTION"),
		GdsfEndpointTesting:    goDotEnvVariable("GDSF_ENDPOINT_TESTING"),
		GdsfEndpointProduction: goDotEnvVariable("GDSF_ENDPOINT_PRODUCTION"),

		CallTimeout:      durationVariable("CALL_TIMEOUT", 60*time.Second),
		StalenessWindow:  durationVariable("STALENESS_WINDOW", 30*24*time.Hour),
		BatchConcurrency: intVariable("BATCH_CONCURRENCY", commands.DefaultBatchConcurrency),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func durationVariable(key string, fallback time.Duration) time.Duration {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func intVariable(key string, fallback int) int {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		configs.DBHost, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBPort, configs.DBSslMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return db
}

func mustMigrateDB(db *gorm.DB) {
	err := db.AutoMigrate(
		&transactionrepo.TransactionDTO{},
		&statusrepo.WebserviceStatusDTO{},
		&trackrepo.TrackDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

func startWebServer(app cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	validator, err := httpin.NewRequestValidator()
	if err != nil {
		log.Fatalf("Error building request validator: %v", err)
	}
	e.Use(validator)

	server := httpin.NewServer(
		app.CreateSubmitCommandHandler(),
		app.CreateSubmitMicDtaCommandHandler(),
		app.CreateRetryCommandHandler(),
		app.CreateBatchSubmitCommandHandler(),
		app.CreateGetVoyageStatusesQueryHandler(),
		app.CreateGetTransactionQueryHandler(),
		app.CreateAttachmentStore(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
