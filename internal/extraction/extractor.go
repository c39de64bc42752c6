package extraction

// LineItem contains one row of structured data extracted from an invoice.
// Invoice-level fields (vendor, invoice number, invoice date) are repeated
// on every line so each row stands on its own in the export.
type LineItem struct {
	Vendor        string  `json:"vendor"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceDate   string  `json:"invoice_date"` // ISO 8601 format
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Total         float64 `json:"total"`
}

// Extractor defines the interface for invoice extraction operations
type Extractor interface {
	// ExtractLineItems analyzes an invoice image/PDF and extracts its line items
	ExtractLineItems(data []byte, contentType string) ([]LineItem, error)
	// Close closes the extractor and releases resources
	Close() error
}

// Factory constructs an Extractor from an API key. A construction error
// means the key was rejected; no extraction call is made during construction.
type Factory func(apiKey string) (Extractor, error)
