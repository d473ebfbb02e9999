package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/JonMunkholm/ToolSpend/internal/core"
)

// multipartOverhead is allowed on top of the file size for form framing.
const multipartOverhead = 1 << 20

// readUpload extracts the "file" part of a multipart request. The caller
// must close the returned file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (io.ReadCloser, string, int64, error) {
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", 0, core.ErrFileTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, "", 0, core.ErrNoFile
		}
		return nil, "", 0, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", 0, core.ErrNoFile
	}
	return file, header.Filename, header.Size, nil
}

// importUpload runs an uploaded file through the import pipeline.
func (s *Server) importUpload(w http.ResponseWriter, r *http.Request) (*core.ImportResult, error) {
	file, name, size, err := s.readUpload(w, r)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	return s.service.ImportFile(ctx, name, size, file)
}

// importSheet imports the Google Sheet named by the "url" form value.
func (s *Server) importSheet(r *http.Request) (*core.ImportResult, error) {
	sheetURL := strings.TrimSpace(r.FormValue("url"))
	if sheetURL == "" {
		return nil, core.ErrInvalidSheetURL
	}
	ctx := WithRequestMetadata(r.Context(), r)
	return s.service.ImportSheet(ctx, sheetURL)
}

// handleImport processes a CSV upload and replaces the current tool set.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	result, err := s.importUpload(w, r)
	if err != nil {
		s.respondImportError(w, r, result, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleImportSheet imports a shared Google Sheet and links it for refresh.
func (s *Server) handleImportSheet(w http.ResponseWriter, r *http.Request) {
	result, err := s.importSheet(r)
	if err != nil {
		s.respondImportError(w, r, result, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRefresh re-imports the linked sheet.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Refresh(WithRequestMetadata(r.Context(), r))
	if err != nil {
		s.respondImportError(w, r, result, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleValidate checks an upload without storing it. The response is 200
// whether or not the file would be accepted; see the accepted field.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	file, name, size, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	defer file.Close()

	if err := s.service.CheckFile(name, size); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result, err := s.service.DryRun(raw)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	result.FileName = name
	writeJSON(w, http.StatusOK, result)
}
