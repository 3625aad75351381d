package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"GO2GETHER_PLANNER/internal/config"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// New returns a Client for cfg. With an API key the key is sent as a bearer
// token. With Google ADC the request is signed with the ambient service
// account and a "{project}" placeholder in the base URL is replaced with the
// credentials' project id. Without either, every call fails with
// ErrNotConfigured.
func New(ctx context.Context, cfg config.GeneratorConfig, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch {
	case cfg.UseGoogleADC:
		opts := []option.ClientOption{option.WithScopes(cloudPlatformScope)}
		if cfg.GoogleCredentials != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentials))
		}
		if strings.Contains(cfg.BaseURL, "{project}") {
			creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
			if err != nil {
				return nil, fmt.Errorf("generator: find google credentials: %w", err)
			}
			if creds.ProjectID == "" {
				return nil, fmt.Errorf("generator: google credentials carry no project id")
			}
			cfg.BaseURL = strings.ReplaceAll(cfg.BaseURL, "{project}", creds.ProjectID)
		}
		httpClient, _, err := htransport.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("generator: google http client: %w", err)
		}
		logger.Info("generator using google application default credentials", "base_url", cfg.BaseURL, "model", cfg.Model)
		return NewChatClient(httpClient, cfg, logger), nil

	case cfg.APIKey != "":
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
		httpClient := oauth2.NewClient(ctx, src)
		logger.Info("generator using api key", "base_url", cfg.BaseURL, "model", cfg.Model)
		return NewChatClient(httpClient, cfg, logger), nil
	}

	logger.Warn("generator credentials missing; itinerary generation will fail")
	return Unconfigured(), nil
}

// WithBaseClient makes New build its API-key client on top of base, which
// is how tests point it at an httptest server.
func WithBaseClient(ctx context.Context, base *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, base)
}
