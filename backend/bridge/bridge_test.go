package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	name    string
	payload any
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
	err    error
}

func (r *recordingEmitter) Emit(name string, payload any) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{name: name, payload: payload})
	return nil
}

func TestReportHistoryEmitsOneEvent(t *testing.T) {
	em := &recordingEmitter{}
	cmds := NewCommands(em, nil, nil)

	entry := HistoryEntry{URL: "https://example.com", Title: "Example", Timestamp: 1700000000000}
	require.NoError(t, cmds.ReportHistory(context.Background(), entry))

	require.Len(t, em.events, 1)
	assert.Equal(t, EventSafariHistory, em.events[0].name)
	assert.Equal(t, entry, em.events[0].payload)
}

func TestReportHistoryEmissionFailure(t *testing.T) {
	t.Run("emitter error", func(t *testing.T) {
		em := &recordingEmitter{err: fmt.Errorf("window closed: %w", ErrEmission)}
		cmds := NewCommands(em, nil, nil)

		err := cmds.ReportHistory(context.Background(), HistoryEntry{URL: "https://example.com"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmission)
		assert.Equal(t, "window closed: event channel unavailable", err.Error())
	})

	t.Run("detached wails emitter", func(t *testing.T) {
		cmds := NewCommands(NewWailsEmitter(), nil, nil)

		err := cmds.ReportHistory(context.Background(), HistoryEntry{})
		assert.ErrorIs(t, err, ErrEmission)
	})

	t.Run("cancelled wails context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		em := NewWailsEmitter()
		em.Attach(ctx)

		err := em.Emit(EventSafariHistory, HistoryEntry{})
		assert.ErrorIs(t, err, ErrEmission)
	})
}

func TestGetCredentialsAlwaysEmpty(t *testing.T) {
	cmds := NewCommands(&recordingEmitter{}, NewStubStore(nil), nil)

	for _, domain := range []string{"", "example.com", "ünïcode.test", "a b c"} {
		creds, err := cmds.GetCredentials(context.Background(), domain)
		require.NoError(t, err)
		assert.NotNil(t, creds)
		assert.Empty(t, creds)
	}
}

func TestSaveCredentialPersistsNothing(t *testing.T) {
	cmds := NewCommands(&recordingEmitter{}, nil, nil)
	ctx := context.Background()

	require.NoError(t, cmds.SaveCredential(ctx, Credential{ID: "1", Domain: "example.com", Username: "alice"}))

	creds, err := cmds.GetCredentials(ctx, "example.com")
	require.NoError(t, err)
	assert.Empty(t, creds)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]Credential, error) {
	return nil, errors.New("keychain locked")
}

func (failingStore) Save(context.Context, Credential) error {
	return errors.New("keychain locked")
}

func TestStoreErrorsSurfaceAsMessage(t *testing.T) {
	cmds := NewCommands(&recordingEmitter{}, failingStore{}, nil)

	_, err := cmds.GetCredentials(context.Background(), "example.com")
	assert.EqualError(t, err, "keychain locked")

	err = cmds.SaveCredential(context.Background(), Credential{})
	var bridgeErr *Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, "keychain locked", bridgeErr.Message)
}

func TestDispatcher(t *testing.T) {
	em := &recordingEmitter{}
	metrics := NewMetrics()
	d := NewCommandDispatcher(NewCommands(em, nil, nil), nil, metrics)
	ctx := context.Background()

	assert.Equal(t, []string{CommandGetCredentials, CommandReportHistory, CommandSaveCredential}, d.Commands())

	t.Run("report_history round trip", func(t *testing.T) {
		entry := HistoryEntry{URL: "https://example.com", Title: "Example", Timestamp: 1700000000000}
		args, err := json.Marshal(map[string]any{"entry": entry})
		require.NoError(t, err)

		out, err := d.Invoke(ctx, CommandReportHistory, args)
		require.NoError(t, err)
		assert.JSONEq(t, "null", string(out))

		require.Len(t, em.events, 1)
		assert.Equal(t, entry, em.events[0].payload)
	})

	t.Run("get_credentials returns empty array", func(t *testing.T) {
		out, err := d.Invoke(ctx, CommandGetCredentials, []byte(`{"domain":"example.com"}`))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(out))
	})

	t.Run("save_credential", func(t *testing.T) {
		out, err := d.Invoke(ctx, CommandSaveCredential, []byte(`{"credential":{"id":"1","domain":"example.com","username":"alice"}}`))
		require.NoError(t, err)
		assert.JSONEq(t, "null", string(out))
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := d.Invoke(ctx, "delete_everything", nil)
		assert.ErrorIs(t, err, ErrUnknownCommand)
		assert.EqualError(t, err, "unknown command: delete_everything")

		_, err = d.Invoke(ctx, "drop_tables", nil)
		assert.EqualError(t, err, "unknown command: drop_tables")
	})

	t.Run("malformed arguments", func(t *testing.T) {
		_, err := d.Invoke(ctx, CommandSaveCredential, []byte(`{"credential":`))
		assert.ErrorIs(t, err, ErrInvalidArguments)

		_, err = d.Invoke(ctx, CommandReportHistory, []byte(`{}`))
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.commands.WithLabelValues(CommandReportHistory, outcomeOK)))
	// unknown names share one label value however many distinct names arrive
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.commands.WithLabelValues(unknownCommandLabel, outcomeUnknown)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.commands.WithLabelValues(CommandReportHistory, outcomeError))+
		testutil.ToFloat64(metrics.commands.WithLabelValues(CommandSaveCredential, outcomeError)))
	assert.Equal(t, 6, testutil.CollectAndCount(metrics.commands))
}

func TestDispatcherRejectsDuplicateRegistration(t *testing.T) {
	d := NewDispatcher(nil, nil)
	noop := func(context.Context, json.RawMessage) (any, error) { return nil, nil }

	require.NoError(t, d.Register("ping", noop))
	assert.Error(t, d.Register("ping", noop))
}

func TestCredentialRoundTrip(t *testing.T) {
	want := Credential{ID: "42", Domain: "example.com", Username: "alice"}
	raw, err := json.Marshal(want)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"42","domain":"example.com","username":"alice"}`, string(raw))

	var got Credential
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, want, got)
}
