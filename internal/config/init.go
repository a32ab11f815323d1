package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/appcontext"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/repository"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/roles"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb/adapters/excel"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb/adapters/googlesheets"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// InitContext loads the environment, builds the transport dialer, the
// repositories and the role registry, and bundles them for handlers.
func InitContext() (*appcontext.Context, error) {
	logger, err := InitLogger()
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using environment variables")
	}

	dialer, err := InitDialer()
	if err != nil {
		return nil, err
	}

	storeCfg := &sheetdb.Config{}
	chatLogs := repository.NewChatLogs(dialer, storeCfg)
	students := repository.NewStudents(dialer, storeCfg)

	ctx := &appcontext.Context{
		Logger:       logger,
		ChatLogs:     chatLogs,
		Students:     students,
		StudentCache: repository.NewStudentCache(students),
		Roles:        InitRoles(),
	}
	return ctx, nil
}

// InitDialer picks the sheet backend from SHEET_BACKEND: "googlesheets"
// (default) or "excel" for local development.
func InitDialer() (sheetdb.Dialer, error) {
	switch backend := getenv("SHEET_BACKEND", "googlesheets"); backend {
	case "googlesheets":
		spreadsheetID := os.Getenv("SPREADSHEET_ID")
		if spreadsheetID == "" {
			return nil, fmt.Errorf("SPREADSHEET_ID environment variable is not set")
		}
		cfg := googlesheets.Config{SpreadsheetID: spreadsheetID}

		if path := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"); path != "" {
			return googlesheets.NewDialerWithJSONKeyFile(context.Background(), cfg, path)
		}
		return googlesheets.NewDialerWithDefaultCredentials(context.Background(), cfg)

	case "excel":
		return excel.NewDialer(excel.Config{
			FilePath: getenv("EXCEL_PATH", "data/sheetdb.xlsx"),
		})

	default:
		return nil, fmt.Errorf("unknown SHEET_BACKEND %q", backend)
	}
}

// InitRoles builds the role registry over one Responses API client.
func InitRoles() *roles.Registry {
	client := roles.NewClient(roles.ClientConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com"),
		Model:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
		Timeout: 60 * time.Second,
	})
	return roles.NewRegistry(client)
}

// InitLogger builds the production zap logger.
func InitLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Port returns the HTTP listen address.
func Port() string {
	return ":" + getenv("PORT", "8080")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
