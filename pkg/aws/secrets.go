package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	apperrors "github.com/sawyelin1011/mtc-platform/common/errors"
)

// SecretPrefix namespaces every secret the platform reads so one Secrets
// Manager account can serve multiple deployments.
const SecretPrefix = "commerce/"

// SecretsClient reads platform secrets from AWS Secrets Manager. Secrets are
// stored as JSON objects of string key/value pairs and cached for the process
// lifetime; credential rotation requires a restart.
type SecretsClient struct {
	client *secretsmanager.Client
	cache  map[string]map[string]string
	mu     sync.RWMutex
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return &SecretsClient{
		client: secretsmanager.NewFromConfig(cfg),
		cache:  make(map[string]map[string]string),
	}
}

// GetSecretMap fetches the named secret under SecretPrefix and decodes it as
// a flat string map.
func (s *SecretsClient) GetSecretMap(ctx context.Context, name string) (map[string]string, error) {
	secretID := SecretPrefix + name

	s.mu.RLock()
	if m, ok := s.cache[secretID]; ok {
		s.mu.RUnlock()
		return m, nil
	}
	s.mu.RUnlock()

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &secretID})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, fmt.Errorf("fetch secret %s: %w", secretID, err))
	}
	if out.SecretString == nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, fmt.Errorf("secret %s has no string value", secretID))
	}

	var m map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &m); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, fmt.Errorf("decode secret %s: %w", secretID, err))
	}

	s.mu.Lock()
	s.cache[secretID] = m
	s.mu.Unlock()

	return m, nil
}
