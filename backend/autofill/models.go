package autofill

// FieldType is what an input field holds
type FieldType string

const (
	FieldUsername FieldType = "username"
	FieldPassword FieldType = "password"
	FieldUnknown  FieldType = "unknown"
)

// Autofill hints as reported by the platform view structure
const (
	HintUsername     = "username"
	HintEmailAddress = "emailAddress"
	HintPassword     = "password"
)

// ViewNode is one node of the view hierarchy of the requesting app
type ViewNode struct {
	AutofillID string     `json:"autofillId"`
	Hints      []string   `json:"hints,omitempty"`
	InputType  int        `json:"inputType"`
	Hint       string     `json:"hint,omitempty"`
	IDEntry    string     `json:"idEntry,omitempty"`
	Text       *string    `json:"text,omitempty"`
	Children   []ViewNode `json:"children,omitempty"`
}

// Structure is the view hierarchy of the app asking for autofill
type Structure struct {
	PackageName string     `json:"packageName"`
	Windows     []ViewNode `json:"windows"`
}

// Field is a classified, fillable input
type Field struct {
	AutofillID string    `json:"autofillId"`
	Type       FieldType `json:"type"`
}

// Dataset is one selectable credential in the autofill dropdown
type Dataset struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// SaveInfo asks the platform to offer saving the listed fields
type SaveInfo struct {
	FieldIDs []string `json:"fieldIds"`
}

// FillResponse is returned to the platform for a fill request
type FillResponse struct {
	Datasets []Dataset `json:"datasets"`
	SaveInfo SaveInfo  `json:"saveInfo"`
}

// Request is the payload of the autofill-request event
type Request struct {
	Domain     string `json:"domain"`
	FieldCount int    `json:"fieldCount"`
}
