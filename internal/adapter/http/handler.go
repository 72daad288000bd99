package http

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/weather-news-service/internal/dataset"
	"github.com/couchcryptid/weather-news-service/internal/domain"
	"github.com/couchcryptid/weather-news-service/internal/news"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// newsQuery is the query string accepted by the news routes.
type newsQuery struct {
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

// Handler serves the news UI and JSON API.
type Handler struct {
	news           *news.Service
	validate       *validator.Validate
	uploadMaxBytes int64
	logger         *slog.Logger
}

// NewHandler creates the UI and API handlers. Uploads larger than
// uploadMaxBytes are rejected.
func NewHandler(svc *news.Service, uploadMaxBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		news:           svc,
		validate:       validator.New(),
		uploadMaxBytes: uploadMaxBytes,
		logger:         logger,
	}
}

// RegisterRoutes mounts the UI and /api/v1 routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Post("/dataset", h.handleUpload)
	r.Get("/news", h.handleNews)
	r.Get("/news/document", h.handleDocument)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/news", h.handleNewsJSON)
		r.Get("/dataset", h.handleDatasetJSON)
	})
}

type datasetInfo struct {
	Source  string    `json:"source"`
	Records int       `json:"records"`
	First   time.Time `json:"first"`
	Last    time.Time `json:"last"`
}

type indexPage struct {
	Today   string
	Dataset *datasetInfo
	Error   string
}

type newsPage struct {
	Article domain.Article
	Date    string
}

type errorPage struct {
	Status  int
	Message string
}

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page := indexPage{Today: domain.Today().Format(time.DateOnly)}
	if info, err := h.datasetInfo(); err == nil {
		page.Dataset = &info
	}
	h.render(w, http.StatusOK, "index.html", page)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)
	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil {
		h.renderError(w, http.StatusBadRequest, "invalid upload: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	if _, err := h.news.LoadDataset(header.Filename, file); err != nil {
		h.logger.Warn("dataset upload rejected", "file", header.Filename, "error", err)
		h.renderError(w, http.StatusBadRequest, err.Error())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleNews(w http.ResponseWriter, r *http.Request) {
	date, err := h.parseDate(r)
	if err != nil {
		h.renderError(w, http.StatusBadRequest, err.Error())
		return
	}
	article, err := h.news.Narrate(r.Context(), date)
	if err != nil {
		h.renderError(w, h.statusFor(err), h.messageFor(err))
		return
	}
	h.render(w, http.StatusOK, "news.html", newsPage{Article: article, Date: date.Format(time.DateOnly)})
}

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	date, err := h.parseDate(r)
	if err != nil {
		h.renderError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := h.news.Document(r.Context(), date)
	if err != nil {
		h.renderError(w, h.statusFor(err), h.messageFor(err))
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Content)
}

func (h *Handler) handleNewsJSON(w http.ResponseWriter, r *http.Request) {
	date, err := h.parseDate(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	article, err := h.news.Narrate(r.Context(), date)
	if err != nil {
		writeJSON(w, h.statusFor(err), map[string]string{"error": h.messageFor(err)})
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (h *Handler) handleDatasetJSON(w http.ResponseWriter, _ *http.Request) {
	info, err := h.datasetInfo()
	if err != nil {
		writeJSON(w, h.statusFor(err), map[string]string{"error": h.messageFor(err)})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// parseDate reads ?date=YYYY-MM-DD, defaulting to today.
func (h *Handler) parseDate(r *http.Request) (time.Time, error) {
	q := newsQuery{Date: r.URL.Query().Get("date")}
	if err := h.validate.Struct(q); err != nil {
		return time.Time{}, errors.New("invalid date, expected YYYY-MM-DD")
	}
	if q.Date == "" {
		return domain.Today(), nil
	}
	return time.Parse(time.DateOnly, q.Date)
}

func (h *Handler) datasetInfo() (datasetInfo, error) {
	ds, err := h.news.Dataset()
	if err != nil {
		return datasetInfo{}, err
	}
	first, last := ds.Bounds()
	return datasetInfo{Source: ds.Source(), Records: ds.Len(), First: first, Last: last}, nil
}

func (h *Handler) statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrNoDataset):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) messageFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return h.news.MissingRecordMessage()
	case errors.Is(err, dataset.ErrNoDataset):
		return err.Error()
	default:
		h.logger.Error("news generation failed", "error", err)
		return http.StatusText(http.StatusInternalServerError)
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render page", "page", name, "error", err)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, status int, msg string) {
	h.render(w, status, "error.html", errorPage{Status: status, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
