package bridge

import (
	"context"
	"log/slog"
)

// CredentialStore is the capability a secure-storage backend must provide
type CredentialStore interface {
	Get(ctx context.Context, domain string) ([]Credential, error)
	Save(ctx context.Context, credential Credential) error
}

var _ CredentialStore = (*StubStore)(nil)

// StubStore stands in for platform secure storage. Nothing is persisted:
// Get is always empty and Save only logs.
type StubStore struct {
	logger *slog.Logger
}

// NewStubStore creates a stub credential store
func NewStubStore(logger *slog.Logger) *StubStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubStore{logger: logger}
}

// Get returns an empty result for every domain
func (s *StubStore) Get(_ context.Context, _ string) ([]Credential, error) {
	return []Credential{}, nil
}

// Save logs the credential's domain and discards it
func (s *StubStore) Save(_ context.Context, credential Credential) error {
	s.logger.Info("Saving credential", "domain", credential.Domain)
	return nil
}
