package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"project_navigator/formatter"
	"project_navigator/generator"
	"project_navigator/metrics"
)

//go:embed web/*.html
var webFS embed.FS

const (
	msgGenerationFailed = "An error occurred while generating project ideas. Please try again."
	msgEmptyTopic       = "Please enter a valid topic."
	msgInvalidRequest   = "Please choose a difficulty, a completion time and between 1 and 10 projects."
)

// Options 控制服务端行为。
type Options struct {
	// LLMTimeout bounds a single completion call; zero means 60s.
	LLMTimeout time.Duration
}

type Server struct {
	genAgent   *generator.Agent
	logger     *slog.Logger
	pages      *template.Template
	llmTimeout time.Duration
}

func New(genAgent *generator.Agent, logger *slog.Logger, opts Options) (*Server, error) {
	if genAgent == nil {
		return nil, errors.New("generator agent required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	pages, err := template.ParseFS(webFS, "web/*.html")
	if err != nil {
		return nil, err
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = 60 * time.Second
	}
	return &Server{
		genAgent:   genAgent,
		logger:     logger,
		pages:      pages,
		llmTimeout: opts.LLMTimeout,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Post("/export", s.handleExport)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generations", s.handleAPIGenerate)
		r.Post("/exports", s.handleAPIExport)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// --- Form pages ---

type pageData struct {
	Topic        string
	Difficulty   string
	Duration     string
	Count        int
	Difficulties []generator.Difficulty
	Durations    []generator.Duration
	MinCount     int
	MaxCount     int
	Error        string
	Result       *resultView
}

type resultView struct {
	Topic string
	Raw   string
	HTML  template.HTML
}

func newPage() pageData {
	return pageData{
		Difficulty:   string(generator.Medium),
		Duration:     string(generator.TwoWeeks),
		Count:        generator.DefaultCount,
		Difficulties: generator.Difficulties(),
		Durations:    generator.Durations(),
		MinCount:     generator.MinCount,
		MaxCount:     generator.MaxCount,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, newPage())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	page := newPage()
	page.Topic = r.PostForm.Get("topic")
	page.Difficulty = r.PostForm.Get("difficulty")
	page.Duration = r.PostForm.Get("duration")
	if n, err := strconv.Atoi(r.PostForm.Get("count")); err == nil {
		page.Count = n
	}

	req, err := parseRequest(page.Topic, page.Difficulty, page.Duration, r.PostForm.Get("count"))
	if err != nil {
		generator.RecordValidationFailure(err)
	} else {
		var res generator.Result
		res, err = s.generate(r.Context(), req)
		if err == nil {
			html, rerr := formatter.RenderHTML(res.RawText)
			if rerr != nil {
				s.logger.ErrorContext(r.Context(), "render markdown failed", "error", rerr)
				html = template.HTML(template.HTMLEscapeString(res.RawText))
			}
			page.Result = &resultView{Topic: req.Topic, Raw: res.RawText, HTML: html}
			s.renderPage(w, r, http.StatusOK, page)
			return
		}
	}

	status, msg := userError(err)
	page.Error = msg
	s.renderPage(w, r, status, page)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.export(w, r, r.PostForm.Get("topic"), r.PostForm.Get("text"), r.PostForm.Get("format"))
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, "index.html", page); err != nil {
		s.logger.ErrorContext(r.Context(), "render page failed", "error", err)
	}
}

// --- JSON API ---

type generationReq struct {
	Topic      string     `json:"topic"`
	Difficulty string     `json:"difficulty"`
	Duration   flexString `json:"duration"`
	Count      *int       `json:"count"`
}

type generationResp struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	Difficulty string          `json:"difficulty"`
	Duration   string          `json:"duration"`
	Count      int             `json:"count"`
	RawText    string          `json:"raw_text"`
	Model      string          `json:"model"`
	Usage      generator.Usage `json:"usage"`
	ElapsedMS  int64           `json:"elapsed_ms"`
}

type exportReq struct {
	Topic  string `json:"topic"`
	Text   string `json:"text"`
	Format string `json:"format"`
}

type errorResp struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	var body generationReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	count := ""
	if body.Count != nil {
		count = strconv.Itoa(*body.Count)
	}
	req, err := parseRequest(body.Topic, body.Difficulty, string(body.Duration), count)
	if err != nil {
		generator.RecordValidationFailure(err)
	} else {
		var res generator.Result
		res, err = s.generate(r.Context(), req)
		if err == nil {
			writeJSON(w, http.StatusOK, generationResp{
				ID:         res.ID,
				Topic:      req.Topic,
				Difficulty: string(req.Difficulty),
				Duration:   string(req.Duration),
				Count:      req.Count,
				RawText:    res.RawText,
				Model:      res.Model,
				Usage:      res.Usage,
				ElapsedMS:  res.Elapsed.Milliseconds(),
			})
			return
		}
	}
	status, msg := userError(err)
	writeError(w, r, status, msg)
}

func (s *Server) handleAPIExport(w http.ResponseWriter, r *http.Request) {
	var body exportReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.export(w, r, body.Topic, body.Text, body.Format)
}

// --- Shared ---

func (s *Server) generate(ctx context.Context, req generator.Request) (generator.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()
	return s.genAgent.Generate(ctx, req)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, topic, text, rawFormat string) {
	format, err := formatter.ParseFormat(rawFormat)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("unknown", "rejected").Inc()
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	art, err := formatter.Export(topic, text, format)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(string(format), "error").Inc()
		s.logger.ErrorContext(r.Context(), "export failed", "format", format, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to build the export file")
		return
	}
	metrics.ExportsTotal.WithLabelValues(string(format), "ok").Inc()
	s.logger.InfoContext(r.Context(), "export ready", "file", art.Filename, "bytes", len(art.Body))

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Body)))
	_, _ = w.Write(art.Body)
}

// parseRequest 先检查 topic，保证空 topic 总是得到同一个提示。
func parseRequest(topic, difficulty, duration, count string) (generator.Request, error) {
	if strings.TrimSpace(topic) == "" {
		return generator.Request{}, generator.ErrEmptyTopic
	}
	req := generator.Request{Topic: strings.TrimSpace(topic), Count: generator.DefaultCount}

	var err error
	if difficulty == "" {
		req.Difficulty = generator.Medium
	} else if req.Difficulty, err = generator.ParseDifficulty(difficulty); err != nil {
		return generator.Request{}, err
	}
	if duration == "" {
		req.Duration = generator.TwoWeeks
	} else if req.Duration, err = generator.ParseDuration(duration); err != nil {
		return generator.Request{}, err
	}
	if strings.TrimSpace(count) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return generator.Request{}, generator.ErrInvalidRequest
		}
		req.Count = n
	}
	return req, req.Validate()
}

// userError maps errors to a status and a message that is safe to show.
func userError(err error) (int, string) {
	switch {
	case errors.Is(err, generator.ErrEmptyTopic):
		return http.StatusUnprocessableEntity, msgEmptyTopic
	case errors.Is(err, generator.ErrInvalidRequest):
		return http.StatusUnprocessableEntity, msgInvalidRequest
	default:
		return http.StatusBadGateway, msgGenerationFailed
	}
}

// flexString accepts both "14" and 14.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResp{Error: msg, RequestID: middleware.GetReqID(r.Context())})
}
