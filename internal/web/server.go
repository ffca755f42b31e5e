// Package web serves the upload form, runs the categorization pipeline on
// the uploaded sheets, and offers the result for download.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/fileutils"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"
	"vtran/txn-categorizer/internal/parsererror"
	"vtran/txn-categorizer/internal/pipeline"
	"vtran/txn-categorizer/internal/spreadsheet"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var views = []string{"index", "result"}

// Runner is the part of the pipeline the server needs.
type Runner interface {
	Run(ctx context.Context, categories, transactions models.Table) (*models.Result, error)
}

var _ Runner = (*pipeline.Pipeline)(nil)

// Info describes the backend on the upload page and /healthz.
type Info struct {
	Model         string
	Abbreviations int
}

type run struct {
	result  *models.Result
	xlsx    []byte
	created time.Time
}

// Server is the web UI. Pipeline runs are serialized: one upload is
// processed at a time.
type Server struct {
	cfg       *config.Config
	runner    Runner
	info      Info
	logger    logging.Logger
	templates map[string]*template.Template

	runMu sync.Mutex

	mu   sync.RWMutex
	runs map[string]*run
}

// NewServer parses the embedded templates and returns a Server.
func NewServer(cfg *config.Config, runner Runner, info Info, logger logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}
	templates := make(map[string]*template.Template, len(views))
	for _, view := range views {
		t, err := template.New(view).ParseFS(templateFS, "templates/layout.tmpl", "templates/"+view+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", view, err)
		}
		templates[view] = t
	}
	return &Server{
		cfg:       cfg,
		runner:    runner,
		info:      info,
		logger:    logger,
		templates: templates,
		runs:      make(map[string]*run),
	}, nil
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/categorize", s.handleCategorize).Methods(http.MethodPost)
	router.HandleFunc("/download/{id}", s.handleDownload).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Web UI listening", logging.F("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down web UI")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) render(w http.ResponseWriter, status int, view string, data map[string]interface{}) {
	tmpl, ok := s.templates[view]
	if !ok {
		http.Error(w, "unknown view "+view, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.WithError(err).Error("Failed to render template", logging.F("view", view))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) indexData(errMsg string) map[string]interface{} {
	return map[string]interface{}{
		"Error":         errMsg,
		"Model":         s.info.Model,
		"Abbreviations": s.info.Abbreviations,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index", s.indexData(""))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":        "ok",
		"model":         s.info.Model,
		"abbreviations": s.info.Abbreviations,
	})
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.Server.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.render(w, http.StatusBadRequest, "index", s.indexData("Error parsing form: "+err.Error()))
		return
	}

	categoriesTable, err := readUpload(r, "categories")
	if err != nil {
		s.render(w, http.StatusBadRequest, "index", s.indexData(err.Error()))
		return
	}
	transactionsTable, err := readUpload(r, "transactions")
	if err != nil {
		s.render(w, http.StatusBadRequest, "index", s.indexData(err.Error()))
		return
	}

	runID := uuid.NewString()
	log := s.logger.WithFields(logging.F(logging.FieldRunID, runID))

	s.runMu.Lock()
	result, err := s.runner.Run(r.Context(), categoriesTable, transactionsTable)
	s.runMu.Unlock()

	if err != nil && result == nil {
		log.WithError(err).Warn("Rejected upload")
		s.render(w, http.StatusBadRequest, "index", s.indexData(err.Error()))
		return
	}

	data := map[string]interface{}{
		"RunID":               runID,
		"Result":              result,
		"CategoriesSheet":     categoriesTable,
		"TransactionsPreview": transactionsTable.Head(s.cfg.Input.PreviewRows),
	}
	if err != nil {
		status := http.StatusBadGateway
		msg := err.Error()
		var llmErr *parsererror.LLMError
		switch {
		case parsererror.IsResponseError(err):
			status = http.StatusUnprocessableEntity
		case errors.As(err, &llmErr):
			msg = "LLM request failed: " + err.Error()
		}
		log.WithError(err).Error("Categorization failed")
		data["Error"] = msg
		data["Result"] = &models.Result{}
		s.render(w, status, "result", data)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteXLSX(&buf, s.cfg.Output.Sheet, result.Categorized); err != nil {
		log.WithError(err).Error("Failed to build workbook")
		data["Error"] = err.Error()
		s.render(w, http.StatusInternalServerError, "result", data)
		return
	}

	s.mu.Lock()
	s.runs[runID] = &run{result: result, xlsx: buf.Bytes(), created: time.Now()}
	s.mu.Unlock()

	log.Info("Categorization complete", logging.F(logging.FieldCount, len(result.Categorized)))
	s.render(w, http.StatusOK, "result", data)
}

func readUpload(r *http.Request, field string) (models.Table, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return models.Table{}, fmt.Errorf("missing %s file: %w", field, err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	if !fileutils.IsSpreadsheet(header.Filename) {
		return models.Table{}, fmt.Errorf("%s file %q: %w", field, header.Filename, parsererror.ErrUnsupportedFormat)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return models.Table{}, fmt.Errorf("reading %s file: %w", field, err)
	}
	return spreadsheet.Read(header.Filename, bytes.NewReader(data))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.RLock()
	stored, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "result not found", http.StatusNotFound)
		return
	}

	name := filepath.Base(s.cfg.Output.File)
	if r.URL.Query().Get("format") == spreadsheet.OutputCSV {
		var buf bytes.Buffer
		delim := []rune(s.cfg.Output.Delimiter)[0]
		if err := spreadsheet.WriteCSV(&buf, delim, stored.result.Categorized); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileutils.ReplaceExtension(name, ".csv")))
		_, _ = w.Write(buf.Bytes())
		return
	}

	w.Header().Set("Content-Type", models.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileutils.ReplaceExtension(name, ".xlsx")))
	_, _ = w.Write(stored.xlsx)
}
