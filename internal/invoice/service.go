package invoice

import (
	"fmt"
	"log/slog"
	"time"

	"invoice-extractor/internal/extraction"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service orchestrates the workspace, the credential manager, and the
// exporter. Child layers (HTTP handlers, the browser UI) only ever see
// read-only views plus these mutation entry points.
type Service struct {
	workspace   *Workspace
	credentials *Credentials
	timeSource  TimeSource
}

// NewService creates a new Service with the default time source
func NewService(credentials *Credentials) *Service {
	return NewServiceWithDeps(credentials, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(credentials *Credentials, timeSource TimeSource) *Service {
	return &Service{
		workspace:   NewWorkspace(),
		credentials: credentials,
		timeSource:  timeSource,
	}
}

// View returns the current workspace snapshot
func (s *Service) View() View {
	return s.workspace.Snapshot()
}

// SelectFile replaces the current selection, clearing any prior result set
func (s *Service) SelectFile(name, contentType string, data []byte) (View, error) {
	if err := s.workspace.SelectFile(name, contentType, data); err != nil {
		return s.workspace.Snapshot(), err
	}
	slog.Info("File selected", "filename", name, "content_type", contentType, "size", len(data))
	return s.workspace.Snapshot(), nil
}

// ClearSelection removes the selected file and the current records
func (s *Service) ClearSelection() (View, error) {
	if err := s.workspace.ClearSelection(); err != nil {
		return s.workspace.Snapshot(), err
	}
	return s.workspace.Snapshot(), nil
}

// Extract runs a single extraction over the selected file. Guard violations
// (no credential, no file, an extraction already running) are returned as
// errors; a provider or parse failure is converted into the error status
// instead, so the caller always gets a coherent view.
func (s *Service) Extract() (View, error) {
	extractor, err := s.credentials.Active()
	if err != nil {
		return s.workspace.Snapshot(), err
	}

	file, err := s.workspace.BeginExtraction()
	if err != nil {
		return s.workspace.Snapshot(), err
	}

	records, err := extractor.ExtractLineItems(file.Data, file.ContentType)
	if err != nil {
		slog.Error("Failed to extract line items",
			"filename", file.Name,
			"content_type", file.ContentType,
			"file_size", len(file.Data),
			"error", err,
		)
		s.workspace.FailExtraction(fmt.Errorf("extracting line items: %w", err))
		return s.workspace.Snapshot(), nil
	}

	s.workspace.CompleteExtraction(records)
	slog.Info("Extraction completed", "filename", file.Name, "records", len(records))
	return s.workspace.Snapshot(), nil
}

// ReplaceRecords replaces the entire working record set with an edited one
func (s *Service) ReplaceRecords(records []extraction.LineItem) (View, error) {
	if err := s.workspace.ReplaceRecords(records); err != nil {
		return s.workspace.Snapshot(), err
	}
	return s.workspace.Snapshot(), nil
}

// Export serializes the current record set into an XLSX workbook and returns
// the download filename alongside the bytes
func (s *Service) Export() (string, []byte, error) {
	records, err := s.workspace.Records()
	if err != nil {
		return "", nil, err
	}

	data, err := BuildWorkbook(records)
	if err != nil {
		return "", nil, fmt.Errorf("building workbook: %w", err)
	}

	filename := ExportFilename(s.timeSource.Now())
	slog.Info("Export built", "filename", filename, "rows", len(records))
	return filename, data, nil
}

// SetCredential validates and persists a new API key
func (s *Service) SetCredential(raw string) error {
	if err := s.credentials.Set(raw); err != nil {
		return err
	}
	slog.Info("Credential validated and persisted")
	return nil
}

// CredentialConfigured reports whether a valid credential is active
func (s *Service) CredentialConfigured() bool {
	return s.credentials.Configured()
}
