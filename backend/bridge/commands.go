package bridge

import (
	"context"
	"log/slog"
)

// Commands implements the three operations exposed to the UI. The emitter
// and store are injected; Commands holds no other state.
type Commands struct {
	emitter Emitter
	store   CredentialStore
	logger  *slog.Logger
}

// NewCommands creates the command set. A nil store falls back to StubStore.
func NewCommands(emitter Emitter, store CredentialStore, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = NewStubStore(logger)
	}
	return &Commands{
		emitter: emitter,
		store:   store,
		logger:  logger,
	}
}

// ReportHistory forwards entry to the UI as a safari-history event
func (c *Commands) ReportHistory(ctx context.Context, entry HistoryEntry) error {
	if c.emitter == nil {
		return newError(ErrEmission.Error(), ErrEmission)
	}
	if err := c.emitter.Emit(EventSafariHistory, entry); err != nil {
		return newError(err.Error(), err)
	}
	return nil
}

// GetCredentials returns the stored credentials for domain
func (c *Commands) GetCredentials(ctx context.Context, domain string) ([]Credential, error) {
	creds, err := c.store.Get(ctx, domain)
	if err != nil {
		return nil, newError(err.Error(), err)
	}
	if creds == nil {
		creds = []Credential{}
	}
	return creds, nil
}

// SaveCredential hands credential to the store
func (c *Commands) SaveCredential(ctx context.Context, credential Credential) error {
	if err := c.store.Save(ctx, credential); err != nil {
		return newError(err.Error(), err)
	}
	return nil
}
