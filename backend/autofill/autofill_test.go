package autofill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multiplatform-example/backend/bridge"
)

func strPtr(s string) *string { return &s }

func loginScreen() Structure {
	return Structure{
		PackageName: "com.example.shop",
		Windows: []ViewNode{{
			AutofillID: "root",
			Children: []ViewNode{
				{AutofillID: "email", InputType: 33, Hint: "Email address", Text: strPtr("alice@example.com")},
				{AutofillID: "pw", Hints: []string{HintPassword}, Text: strPtr("hunter2")},
				{AutofillID: "search", InputType: 1, Hint: "Search"},
				{AutofillID: "", Hints: []string{HintUsername}},
			},
		}},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		node ViewNode
		want FieldType
	}{
		{"username hint", ViewNode{Hints: []string{HintUsername}}, FieldUsername},
		{"email hint", ViewNode{Hints: []string{HintEmailAddress}}, FieldUsername},
		{"password hint", ViewNode{Hints: []string{HintPassword}}, FieldPassword},
		{"hint wins over id", ViewNode{Hints: []string{HintPassword}, IDEntry: "username_field"}, FieldPassword},
		{"hint text", ViewNode{Hint: "Your Username"}, FieldUsername},
		{"id entry", ViewNode{IDEntry: "login_PASSWORD"}, FieldPassword},
		{"email id", ViewNode{IDEntry: "email_input"}, FieldUsername},
		{"nothing", ViewNode{Hint: "Search"}, FieldUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.node))
		})
	}
}

func TestParseStructure(t *testing.T) {
	fields := ParseStructure(loginScreen())
	assert.Equal(t, []Field{
		{AutofillID: "email", Type: FieldUsername},
		{AutofillID: "pw", Type: FieldPassword},
	}, fields)
}

type recordingEmitter struct {
	names    []string
	payloads []any
	err      error
}

func (r *recordingEmitter) Emit(name string, payload any) error {
	r.names = append(r.names, name)
	r.payloads = append(r.payloads, payload)
	return r.err
}

type recordingSaver struct {
	saved []bridge.Credential
	err   error
}

func (r *recordingSaver) SaveCredential(_ context.Context, c bridge.Credential) error {
	r.saved = append(r.saved, c)
	return r.err
}

func TestOnFillRequest(t *testing.T) {
	em := &recordingEmitter{}
	svc := NewService(em, &recordingSaver{}, nil)

	resp, err := svc.OnFillRequest(context.Background(), loginScreen())
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.Len(t, resp.Datasets, 1)
	assert.Equal(t, "Demo Credential", resp.Datasets[0].Label)
	assert.Equal(t, map[string]string{"email": "demo@example.com", "pw": ""}, resp.Datasets[0].Values)
	assert.Equal(t, []string{"email", "pw"}, resp.SaveInfo.FieldIDs)

	assert.Equal(t, []string{bridge.EventAutofillRequest}, em.names)
	assert.Equal(t, Request{Domain: "com.example.shop", FieldCount: 2}, em.payloads[0])
}

func TestOnFillRequestNoFields(t *testing.T) {
	em := &recordingEmitter{}
	svc := NewService(em, &recordingSaver{}, nil)

	resp, err := svc.OnFillRequest(context.Background(), Structure{Windows: []ViewNode{{AutofillID: "x", Hint: "Search", InputType: 1}}})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, em.names)
}

func TestOnFillRequestEmitFailureIsNotFatal(t *testing.T) {
	svc := NewService(&recordingEmitter{err: bridge.ErrEmission}, &recordingSaver{}, nil)

	resp, err := svc.OnFillRequest(context.Background(), loginScreen())
	require.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestOnSaveRequest(t *testing.T) {
	saver := &recordingSaver{}
	svc := NewService(&recordingEmitter{}, saver, nil)

	require.NoError(t, svc.OnSaveRequest(context.Background(), loginScreen()))
	require.Len(t, saver.saved, 1)

	got := saver.saved[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "com.example.shop", got.Domain)
	assert.Equal(t, "alice@example.com", got.Username)
}

func TestOnSaveRequestUnknownPackage(t *testing.T) {
	saver := &recordingSaver{err: errors.New("locked")}
	svc := NewService(&recordingEmitter{}, saver, nil)

	s := loginScreen()
	s.PackageName = ""
	err := svc.OnSaveRequest(context.Background(), s)
	assert.Error(t, err)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "unknown", saver.saved[0].Domain)
}

func TestOnSaveRequestLastTypedValueWins(t *testing.T) {
	saver := &recordingSaver{}
	svc := NewService(&recordingEmitter{}, saver, nil)

	s := Structure{
		PackageName: "com.example.bank",
		Windows: []ViewNode{{
			AutofillID: "root",
			Children: []ViewNode{
				{AutofillID: "user", Hints: []string{HintUsername}, Text: strPtr("first@example.com")},
				{AutofillID: "confirm_email", InputType: 33, IDEntry: "confirm_email", Text: strPtr("second@example.com")},
				{AutofillID: "untouched_username", Hints: []string{HintUsername}},
			},
		}},
	}

	require.NoError(t, svc.OnSaveRequest(context.Background(), s))
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "second@example.com", saver.saved[0].Username)
}
