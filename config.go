package main

import (
	"context"
	"os"

	apperrors "github.com/sawyelin1011/mtc-platform/common/errors"
	aws_pkg "github.com/sawyelin1011/mtc-platform/pkg/aws"
)

// Config holds all configuration for the commerce platform.
type Config struct {
	Port string

	// Redis cache for catalog reads; empty disables caching.
	RedisURL string

	// S3 bucket for digital download files.
	DownloadsBucket string

	// Stripe API credentials.
	StripeSecretKey string

	// SNS topics for domain events; empty disables publishing.
	OrderSNSTopicARN       string
	PaymentSNSTopicARN     string
	FulfillmentSNSTopicARN string
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "8080"),
		RedisURL:               os.Getenv("REDIS_URL"),
		DownloadsBucket:        getEnv("DOWNLOADS_BUCKET", "commerce-downloads"),
		StripeSecretKey:        os.Getenv("STRIPE_SECRET_KEY"),
		OrderSNSTopicARN:       os.Getenv("ORDER_SNS_TOPIC_ARN"),
		PaymentSNSTopicARN:     os.Getenv("PAYMENT_SNS_TOPIC_ARN"),
		FulfillmentSNSTopicARN: os.Getenv("FULFILLMENT_SNS_TOPIC_ARN"),
	}

	// Credential overrides from Secrets Manager. Opting in makes a failed
	// fetch an error rather than a silent fallback to stale env credentials.
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrConfiguration, err)
		}
		sm := aws_pkg.NewSecretsClient(awsCfg)

		stripe, err := sm.GetSecretMap(context.Background(), "STRIPE_CREDENTIALS")
		if err != nil {
			return nil, err
		}
		if v := stripe["STRIPE_SECRET_KEY"]; v != "" {
			cfg.StripeSecretKey = v
		}

		db, err := sm.GetSecretMap(context.Background(), "DB_CREDENTIALS")
		if err != nil {
			return nil, err
		}
		for _, key := range []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOST", "POSTGRES_PORT"} {
			if v := db[key]; v != "" {
				os.Setenv(key, v)
			}
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
