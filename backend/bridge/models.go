package bridge

// HistoryEntry is a single page navigation reported by the browser extension
type HistoryEntry struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Timestamp uint64 `json:"timestamp"`
}

// Credential holds autofill metadata for a domain. It carries no secret.
type Credential struct {
	ID       string `json:"id"`
	Domain   string `json:"domain"`
	Username string `json:"username"`
}

// Event names pushed to the UI
const (
	EventSafariHistory   = "safari-history"
	EventAutofillRequest = "autofill-request"
)

// Command names registered with the dispatcher
const (
	CommandReportHistory  = "report_history"
	CommandGetCredentials = "get_credentials"
	CommandSaveCredential = "save_credential"
)
