package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"sales-comparison/internal/domain"
	"sales-comparison/internal/gateway"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Analyzer is the part of the comparison usecase served over HTTP.
type Analyzer interface {
	LoadUploads(ctx context.Context, prev, curr domain.Upload) (*domain.DatasetPair, error)
	Analyze(ctx context.Context, pair *domain.DatasetPair, spec domain.FilterSpec) (*domain.ComparisonReport, error)
}

// Handler serves the comparison API.
type Handler struct {
	analyzer  Analyzer
	logger    *slog.Logger
	maxUpload int64
	limiter   *RateLimiter
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRateLimit limits the API routes to rps requests per second. A
// non-positive rps leaves the API unlimited.
func WithRateLimit(rps float64, burst int) HandlerOption {
	return func(h *Handler) {
		if rps > 0 {
			h.limiter = NewRateLimiter(rps, burst, h.logger)
		}
	}
}

// NewHandler creates a new handler. maxUpload bounds the request body of
// the upload endpoints, in bytes.
func NewHandler(analyzer Analyzer, logger *slog.Logger, maxUpload int64, opts ...HandlerOption) *Handler {
	h := &Handler{
		analyzer:  analyzer,
		logger:    logger.With(slog.String("component", "http")),
		maxUpload: maxUpload,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Route("/api/v1", func(r chi.Router) {
		if h.limiter != nil {
			r.Use(h.limiter.Handler)
		}
		r.Post("/compare", h.compare)
		r.Post("/export", h.export)
	})
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// compareResponse is the body of a successful compare call.
type compareResponse struct {
	Previous *domain.Dataset          `json:"previous"`
	Current  *domain.Dataset          `json:"current"`
	Report   *domain.ComparisonReport `json:"report"`
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	pair, report, err := h.run(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, compareResponse{Previous: pair.Previous, Current: pair.Current, Report: report})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	_, report, err := h.run(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", gateway.FormatXLSX:
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="sales_comparison.xlsx"`)
		err = gateway.WriteXLSX(w, report)
	case gateway.FormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="sales_comparison.pdf"`)
		err = gateway.WritePDF(w, report)
	default:
		h.fail(w, r, &badRequest{msg: fmt.Sprintf("unknown export format %q", format)})
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
	}
}

// run loads both uploads of a multipart request and analyzes them with the
// filter given in the form fields.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) (*domain.DatasetPair, *domain.ComparisonReport, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return nil, nil, &badRequest{msg: "invalid multipart form", err: err}
	}

	prev, err := readUpload(r, "previous")
	if err != nil {
		return nil, nil, err
	}
	curr, err := readUpload(r, "current")
	if err != nil {
		return nil, nil, err
	}
	spec, err := parseFilter(r)
	if err != nil {
		return nil, nil, err
	}

	pair, err := h.analyzer.LoadUploads(r.Context(), prev, curr)
	if err != nil {
		return nil, nil, err
	}
	report, err := h.analyzer.Analyze(r.Context(), pair, spec)
	if err != nil {
		return nil, nil, err
	}
	return pair, report, nil
}

func readUpload(r *http.Request, field string) (domain.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return domain.Upload{}, &badRequest{msg: fmt.Sprintf("missing %q file", field), err: err}
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("failed to read %q upload: %w", field, err)
	}
	return domain.Upload{Name: header.Filename, Content: content}, nil
}

// parseFilter reads the months, customers, products and reps form fields.
// Each field may be repeated or hold a comma separated list.
func parseFilter(r *http.Request) (domain.FilterSpec, error) {
	var spec domain.FilterSpec
	for _, raw := range formList(r, "months") {
		m, err := strconv.Atoi(raw)
		if err != nil {
			return spec, &badRequest{msg: fmt.Sprintf("invalid month %q", raw), err: err}
		}
		spec.Months = append(spec.Months, m)
	}
	spec.CustomerIDs = formList(r, "customers")
	spec.ProductIDs = formList(r, "products")
	spec.SalesReps = formList(r, "reps")
	return spec, nil
}

func formList(r *http.Request, field string) []string {
	var out []string
	for _, value := range r.Form[field] {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

type badRequest struct {
	msg string
	err error
}

func (e *badRequest) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *badRequest) Unwrap() error {
	return e.err
}

// ProblemDetails is an RFC 7807 error body.
type ProblemDetails struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	problem := toProblem(err)
	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.Int("status", problem.Status),
		slog.String("error", err.Error()))
	_ = render.Render(w, r, problem)
}

func toProblem(err error) *ProblemDetails {
	var (
		maxBytes    *http.MaxBytesError
		validation  validator.ValidationErrors
		badReq      *badRequest
		schemaErr   *domain.SchemaError
		processErr  *domain.ProcessingError
		invalidSpec *domain.InvalidInputError
	)
	switch {
	case errors.As(err, &maxBytes):
		return &ProblemDetails{Type: "/errors/payload-too-large", Title: "Payload Too Large", Status: http.StatusRequestEntityTooLarge, Detail: err.Error()}
	case errors.Is(err, gateway.ErrUnsupportedFormat):
		return &ProblemDetails{Type: "/errors/unsupported-format", Title: "Unsupported Media Type", Status: http.StatusUnsupportedMediaType, Detail: err.Error()}
	case errors.As(err, &schemaErr):
		return &ProblemDetails{Type: "/errors/schema", Title: "Missing Columns", Status: http.StatusUnprocessableEntity, Detail: err.Error()}
	case errors.As(err, &processErr):
		return &ProblemDetails{Type: "/errors/processing", Title: "Unreadable Dataset", Status: http.StatusUnprocessableEntity, Detail: err.Error()}
	case errors.As(err, &validation), errors.As(err, &badReq), errors.As(err, &invalidSpec):
		return &ProblemDetails{Type: "/errors/validation", Title: "Invalid Request", Status: http.StatusBadRequest, Detail: err.Error()}
	default:
		return &ProblemDetails{Type: "/errors/internal", Title: "Internal Server Error", Status: http.StatusInternalServerError, Detail: err.Error()}
	}
}
