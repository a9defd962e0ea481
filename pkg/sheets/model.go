package sheets

import (
	"ranking/pkg/ranking"
)

// Options configure a SheetClient. Exactly one of CredentialsFile and
// CredentialsJSON is normally set; with neither, application default
// credentials are used.
type Options struct {
	CredentialsFile   string
	CredentialsJSON   string
	SpreadsheetID     string
	RequestsPerSecond float64
	MaxRetries        int
}

// grid margins added when an output sheet is created or grown
const (
	extraRows    = 10
	extraColumns = 5
)

var (
	_ ranking.Source         = (*SheetClient)(nil)
	_ ranking.BatchPublisher = (*SheetClient)(nil)
)
