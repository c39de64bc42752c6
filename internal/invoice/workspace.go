package invoice

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"invoice-extractor/internal/extraction"
)

var (
	// ErrExtractionInFlight is returned when an operation conflicts with a running extraction
	ErrExtractionInFlight = errors.New("an extraction is already in progress")
	// ErrNoFileSelected is returned when an extraction is triggered without a selected file
	ErrNoFileSelected = errors.New("no file selected")
	// ErrUnsupportedMediaType is returned for files that are not PDF, JPEG, or PNG
	ErrUnsupportedMediaType = errors.New("unsupported media type: only PDF, JPEG, and PNG are accepted")
)

// State is the processing state of the current extraction attempt
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

// Status carries the processing state and a human-readable message
type Status struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// SelectedFile is the single input file the workspace operates on
type SelectedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileInfo is the read-only view of the selected file exposed to clients
type FileInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// View is a read-only snapshot of the workspace state
type View struct {
	File    *FileInfo             `json:"file"`
	Status  Status                `json:"status"`
	Records []extraction.LineItem `json:"records"`
}

// Workspace owns the selected file, the processing status, and the working
// record set. All transitions happen under one lock; at most one extraction
// is in flight at a time.
type Workspace struct {
	mu       sync.Mutex
	file     *SelectedFile
	records  []extraction.LineItem
	status   Status
	inFlight bool
}

// NewWorkspace creates an empty Workspace in the idle state
func NewWorkspace() *Workspace {
	return &Workspace{
		status: Status{State: StateIdle},
	}
}

// supportedMediaType reports whether a content type is one of the accepted inputs
func supportedMediaType(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "application/pdf", "image/jpeg", "image/png":
		return true
	}
	return false
}

// SelectFile replaces the current selection. Selecting a file always clears
// the record set and resets the status to idle in the same locked step, so
// selection and result set can never diverge.
func (w *Workspace) SelectFile(name, contentType string, data []byte) error {
	if !supportedMediaType(contentType) {
		return fmt.Errorf("%w (got %q)", ErrUnsupportedMediaType, contentType)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight {
		return ErrExtractionInFlight
	}

	w.file = &SelectedFile{
		Name:        name,
		ContentType: strings.ToLower(strings.TrimSpace(contentType)),
		Data:        data,
	}
	w.records = nil
	w.status = Status{State: StateIdle}
	return nil
}

// ClearSelection removes the selected file and the record set
func (w *Workspace) ClearSelection() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight {
		return ErrExtractionInFlight
	}

	w.file = nil
	w.records = nil
	w.status = Status{State: StateIdle}
	return nil
}

// BeginExtraction claims the single extraction slot and moves the status to
// processing. It returns the selected file for the caller to extract from.
func (w *Workspace) BeginExtraction() (*SelectedFile, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight {
		return nil, ErrExtractionInFlight
	}
	if w.file == nil {
		return nil, ErrNoFileSelected
	}

	w.inFlight = true
	w.status = Status{
		State:   StateProcessing,
		Message: fmt.Sprintf("Processing %s...", w.file.Name),
	}
	// Each attempt starts from a clean result set
	w.records = nil
	return w.file, nil
}

// CompleteExtraction records a successful extraction result. Zero records is
// still a success; the message reports the count either way.
func (w *Workspace) CompleteExtraction(records []extraction.LineItem) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.inFlight = false
	w.records = records
	name := ""
	if w.file != nil {
		name = w.file.Name
	}
	w.status = Status{
		State:   StateCompleted,
		Message: fmt.Sprintf("Successfully extracted %d item(s) from %s", len(records), name),
	}
}

// FailExtraction records an extraction failure. The record set stays empty.
func (w *Workspace) FailExtraction(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.inFlight = false
	w.status = Status{
		State:   StateError,
		Message: err.Error(),
	}
}

// ReplaceRecords replaces the entire working record set. The workspace copy
// is the single source of truth for later exports.
func (w *Workspace) ReplaceRecords(records []extraction.LineItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight {
		return ErrExtractionInFlight
	}

	w.records = append([]extraction.LineItem(nil), records...)
	return nil
}

// Records returns a copy of the current record set, or an error while an
// extraction is in flight (an export must never see a partial set).
func (w *Workspace) Records() ([]extraction.LineItem, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight {
		return nil, ErrExtractionInFlight
	}

	return append([]extraction.LineItem(nil), w.records...), nil
}

// Snapshot returns a read-only view of the workspace
func (w *Workspace) Snapshot() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := View{
		Status:  w.status,
		Records: append([]extraction.LineItem{}, w.records...),
	}
	if w.file != nil {
		view.File = &FileInfo{
			Name:        w.file.Name,
			ContentType: w.file.ContentType,
			Size:        len(w.file.Data),
		}
	}
	return view
}
