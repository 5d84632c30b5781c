package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/taxotree/pkg/errors"
	taxio "github.com/matzehuels/taxotree/pkg/io"
	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/render"
	"github.com/matzehuels/taxotree/pkg/render/collapsible"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// treeResponse is the body of POST /v1/tree.
type treeResponse struct {
	Edges  *taxonomy.EdgeList    `json:"edges"`
	Tree   *taxonomy.TreeNode    `json:"tree"`
	Report taxonomy.IngestReport `json:"report"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	rows, report, err := s.readRows(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.Options{Strict: queryBool(r, "strict"), Refresh: queryBool(r, "refresh"), TTL: s.cfg.CacheTTL(), Logger: s.logger}
	h, _, hit, err := s.runner.BuildWithCacheInfo(r.Context(), rows, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeJSON(w, http.StatusOK, treeResponse{Edges: h.Edges, Tree: h.Tree, Report: report})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rows, _, err := s.readRows(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), rows, opts)
	if err != nil {
		if errors.Is(err, errors.ErrCodeEmptyInput) && wantsSVG(r, opts) {
			s.writeEmptySVG(w, opts, err)
			return
		}
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// renderOptions reads the render query parameters over the configured look.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Strict:      queryBool(r, "strict"),
		Treegraph:   s.cfg.TreegraphOptions(),
		Chart:       s.cfg.CollapsibleConfig(),
		ExpandAll:   queryBool(r, "expand_all"),
		Toggles:     q["toggle"],
		Animate:     queryBool(r, "animate"),
		Interactive: queryBool(r, "interactive"),
		Refresh:     queryBool(r, "refresh"),
		TTL:         s.cfg.CacheTTL(),
		Logger:      s.logger,
	}

	if v := q.Get("type"); v != "" {
		t, err := render.ParseType(v)
		if err != nil {
			return opts, err
		}
		opts.VizType = t
	}
	format := render.FormatSVG
	if v := q.Get("format"); v != "" {
		f, err := render.ParseFormat(v)
		if err != nil {
			return opts, err
		}
		format = f
	}
	opts.Formats = []render.Format{format}

	if title := q.Get("title"); title != "" {
		opts.Treegraph.Title = title
		opts.ChartTitle = title
	}

	var err error
	if opts.CollapseDepth, err = queryInt(r, "collapse"); err != nil {
		return opts, err
	}
	if opts.Frames, err = queryInt(r, "frames"); err != nil {
		return opts, err
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale: %q is not a number", v)
		}
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// readRows decodes the request body as CSV or host JSON.
func (s *Server) readRows(r *http.Request) ([]taxonomy.Row, taxonomy.IngestReport, error) {
	format := taxio.FormatHostJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == "text/csv" {
		format = taxio.FormatCSV
	}
	return taxio.ReadRowsFrom(r.Body, format, s.schema)
}

// writeError maps err to a status code and a plain-text body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxErr):
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, errors.ErrCodeEmptyInput):
		http.Error(w, errors.UserMessage(err), http.StatusUnprocessableEntity)
	case errors.IsClientError(err):
		http.Error(w, errors.UserMessage(err), http.StatusBadRequest)
	case r.Context().Err() != nil:
		http.Error(w, "request cancelled or timed out", http.StatusServiceUnavailable)
	default:
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// wantsSVG reports whether the client embeds the SVG directly, in which case
// an empty result is drawn as a message instead of a text error.
func wantsSVG(r *http.Request, opts pipeline.Options) bool {
	return opts.Formats[0] == render.FormatSVG && strings.Contains(r.Header.Get("Accept"), "image/svg+xml")
}

func (s *Server) writeEmptySVG(w http.ResponseWriter, opts pipeline.Options, err error) {
	cfg := opts.Chart.WithDefaults()
	w.Header().Set("Content-Type", render.FormatSVG.ContentType())
	w.WriteHeader(http.StatusUnprocessableEntity)
	w.Write(collapsible.RenderMessageSVG(errors.UserMessage(err), cfg.Width, cfg.TreeHeight))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not an integer", name, v)
	}
	return n, nil
}
