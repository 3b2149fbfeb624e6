package autofill

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"multiplatform-example/backend/bridge"
)

const (
	unknownPackage = "unknown"
	demoLabel      = "Demo Credential"
	demoUsername   = "demo@example.com"
)

// Classify decides what a node holds. Explicit hints win over hint text
// and view id.
func Classify(node ViewNode) FieldType {
	for _, h := range node.Hints {
		switch h {
		case HintUsername, HintEmailAddress:
			return FieldUsername
		case HintPassword:
			return FieldPassword
		}
	}

	hint := strings.ToLower(node.Hint)
	id := strings.ToLower(node.IDEntry)

	if strings.Contains(hint, "email") || strings.Contains(hint, "username") ||
		strings.Contains(id, "email") || strings.Contains(id, "username") {
		return FieldUsername
	}
	if strings.Contains(hint, "password") || strings.Contains(id, "password") {
		return FieldPassword
	}
	return FieldUnknown
}

// ParseStructure collects every fillable field, depth first
func ParseStructure(s Structure) []Field {
	var fields []Field
	for _, w := range s.Windows {
		fields = traverse(w, fields)
	}
	return fields
}

func traverse(node ViewNode, fields []Field) []Field {
	if node.AutofillID != "" && (len(node.Hints) > 0 || node.InputType != 0) {
		if t := Classify(node); t != FieldUnknown {
			fields = append(fields, Field{AutofillID: node.AutofillID, Type: t})
		}
	}
	for _, child := range node.Children {
		fields = traverse(child, fields)
	}
	return fields
}

func findNode(node ViewNode, id string) (ViewNode, bool) {
	if node.AutofillID == id {
		return node, true
	}
	for _, child := range node.Children {
		if n, ok := findNode(child, id); ok {
			return n, true
		}
	}
	return ViewNode{}, false
}

func first(fields []Field, t FieldType) (Field, bool) {
	for _, f := range fields {
		if f.Type == t {
			return f, true
		}
	}
	return Field{}, false
}

func packageName(s Structure) string {
	if s.PackageName == "" {
		return unknownPackage
	}
	return s.PackageName
}

// CredentialSaver is the save_credential command
type CredentialSaver interface {
	SaveCredential(ctx context.Context, credential bridge.Credential) error
}

// Service answers fill and save requests from the platform autofill service
type Service struct {
	emitter bridge.Emitter
	saver   CredentialSaver
	logger  *slog.Logger
}

// NewService creates an autofill service
func NewService(emitter bridge.Emitter, saver CredentialSaver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{emitter: emitter, saver: saver, logger: logger}
}

// OnFillRequest notifies the UI and returns the datasets to offer. A nil
// response means nothing on screen can be filled.
func (s *Service) OnFillRequest(ctx context.Context, structure Structure) (*FillResponse, error) {
	fields := ParseStructure(structure)
	if len(fields) == 0 {
		s.logger.Debug("No autofillable fields found")
		return nil, nil
	}

	domain := packageName(structure)
	s.logger.Debug("Autofill request", "from", domain, "fields", len(fields))

	if err := s.emitter.Emit(bridge.EventAutofillRequest, Request{Domain: domain, FieldCount: len(fields)}); err != nil {
		s.logger.Error("Failed to notify UI of autofill request", "error", err)
	}

	resp := &FillResponse{Datasets: []Dataset{}}

	values := make(map[string]string)
	if f, ok := first(fields, FieldUsername); ok {
		values[f.AutofillID] = demoUsername
	}
	if f, ok := first(fields, FieldPassword); ok {
		// passwords are never prefilled
		values[f.AutofillID] = ""
	}
	if len(values) > 0 {
		resp.Datasets = append(resp.Datasets, Dataset{Label: demoLabel, Values: values})
	}

	resp.SaveInfo.FieldIDs = make([]string, 0, len(fields))
	for _, f := range fields {
		resp.SaveInfo.FieldIDs = append(resp.SaveInfo.FieldIDs, f.AutofillID)
	}

	return resp, nil
}

// OnSaveRequest reads what the user typed from the structure's text values
// and hands it to save_credential. When several fields share a type the
// last one wins. Only the username reaches the credential; the credential
// record has no secret field.
func (s *Service) OnSaveRequest(ctx context.Context, structure Structure) error {
	saved := make(map[FieldType]string)
	for _, f := range ParseStructure(structure) {
		for _, w := range structure.Windows {
			if n, ok := findNode(w, f.AutofillID); ok {
				if n.Text != nil {
					saved[f.Type] = *n.Text
				}
				break
			}
		}
	}
	username := saved[FieldUsername]

	credential := bridge.Credential{
		ID:       uuid.NewString(),
		Domain:   packageName(structure),
		Username: username,
	}
	if err := s.saver.SaveCredential(ctx, credential); err != nil {
		return fmt.Errorf("save credential for %s: %w", credential.Domain, err)
	}
	return nil
}
