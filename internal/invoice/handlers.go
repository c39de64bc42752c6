package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"invoice-extractor/internal/extraction"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// jsonError writes a JSON error body with CORS headers set
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleSession reports the authenticated identity, or null when auth is disabled
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	var user any
	if s.basicAuth.Username != "" {
		user = s.basicAuth.Username
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// handleCredentialStatus reports whether a valid credential is active
func (s *Server) handleCredentialStatus(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, map[string]bool{
		"configured": s.service.CredentialConfigured(),
	})
}

// handleSetCredential validates and persists an API key
func (s *Server) handleSetCredential(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.service.SetCredential(strings.TrimSpace(req.APIKey)); err != nil {
		slog.Error("Error setting credential", "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, map[string]bool{"configured": true})
}

// handleWorkspace returns the current workspace view
func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, s.service.View())
}

// handleSelectFile handles file selection via multipart upload
func (s *Server) handleSelectFile(w http.ResponseWriter, r *http.Request) {
	// 50MB cap handles high-resolution phone photos of invoices
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if err.Error() == "http: no such file" {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		jsonError(w, "File is too large. Maximum size is 50MB.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := resolveContentType(header.Header.Get("Content-Type"), header.Filename)

	view, err := s.service.SelectFile(header.Filename, contentType, data)
	if err != nil {
		if errors.Is(err, ErrExtractionInFlight) {
			jsonError(w, err.Error(), http.StatusConflict)
			return
		}
		slog.Error("Error selecting file", "filename", header.Filename, "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	setCORSHeaders(w)
	writeJSON(w, http.StatusCreated, view)
}

// resolveContentType normalizes the declared content type, falling back to the
// file extension when the client did not send one
func resolveContentType(declared, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// handleClearFile clears the current selection and records
func (s *Server) handleClearFile(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.ClearSelection()
	if err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}

	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, view)
}

// handleExtract triggers a single extraction over the selected file
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Extract()
	if err != nil {
		switch {
		case errors.Is(err, ErrExtractionInFlight):
			jsonError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrNoFileSelected), errors.Is(err, ErrNoCredential):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			slog.Error("Error running extraction", "error", err)
			jsonError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, view)
}

// handleReplaceRecords replaces the entire working record set
func (s *Server) handleReplaceRecords(w http.ResponseWriter, r *http.Request) {
	var records []extraction.LineItem
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := s.service.ReplaceRecords(records)
	if err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}

	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, view)
}

// handleExport builds and downloads the XLSX workbook
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.service.Export()
	if err != nil {
		if errors.Is(err, ErrExtractionInFlight) {
			jsonError(w, err.Error(), http.StatusConflict)
			return
		}
		slog.Error("Error building export", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

// handleStaticCSS serves the CSS file
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}

// handleStaticJS serves the JavaScript file
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}
