package googlesheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ServiceAccountKey represents the structure of a service account JSON key file
type ServiceAccountKey struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// NewDialerWithJSONKeyFile creates a Dialer using a JSON key file.
// An empty path falls back to GOOGLE_APPLICATION_CREDENTIALS.
func NewDialerWithJSONKeyFile(ctx context.Context, config Config, jsonPath string) (*Dialer, error) {
	if jsonPath == "" {
		jsonPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if jsonPath == "" {
			return nil, fmt.Errorf("no JSON key file path provided and GOOGLE_APPLICATION_CREDENTIALS not set")
		}
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON key file: %w", err)
	}
	return NewDialerWithJSONKeyData(ctx, config, jsonData)
}

// NewDialerWithJSONKeyData creates a Dialer using JSON key data.
func NewDialerWithJSONKeyData(ctx context.Context, config Config, jsonData []byte) (*Dialer, error) {
	creds, err := google.CredentialsFromJSON(ctx, jsonData, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return NewDialer(config, option.WithCredentials(creds)), nil
}

// NewDialerWithServiceAccountKey creates a Dialer using email and private key.
func NewDialerWithServiceAccountKey(config Config, email string, privateKey string) *Dialer {
	jwtConfig := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	return NewDialer(config, option.WithTokenSource(jwtConfig.TokenSource(context.Background())))
}

// NewDialerWithDefaultCredentials creates a Dialer using Application
// Default Credentials: GOOGLE_APPLICATION_CREDENTIALS, gcloud ADC, or
// the GCE metadata service, in that order.
func NewDialerWithDefaultCredentials(ctx context.Context, config Config) (*Dialer, error) {
	tokenSource, err := google.DefaultTokenSource(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to get default token source: %w", err)
	}
	return NewDialer(config, option.WithTokenSource(tokenSource)), nil
}

// ParseServiceAccountJSON parses and validates a service account key.
func ParseServiceAccountJSON(jsonData []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(jsonData, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account JSON: %w", err)
	}

	if key.Type != "service_account" {
		return nil, fmt.Errorf("invalid key type: %s (expected: service_account)", key.Type)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("missing required fields in service account key")
	}
	return &key, nil
}
