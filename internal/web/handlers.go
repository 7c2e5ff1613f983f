package web

import (
	"net/http"
	"strconv"

	"shutter/internal/errors"
	"shutter/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	deps     *ops.Deps
	renderer *Renderer
}

// HandleList handles GET /shots — list stored screenshots, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := ops.List(r.Context(), h.deps, ops.ListInput{
		Limit: parseIntParam(r, "limit", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Screenshots",
			Version: h.renderer.version,
			Nav:     "shots",
		},
		Items:          result.Screenshots,
		Count:          result.Count,
		Limit:          result.Limit,
		RendererReport: result.RendererReport,
	})
}

// HandleDetail handles GET /shots/{id} — view a single screenshot's metadata.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("screenshot ID is required"))
		return
	}

	info, err := ops.Info(r.Context(), h.deps, ops.InfoInput{ScreenshotID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   shortID(info.ID),
			Version: h.renderer.version,
			Nav:     "shots",
		},
		Info: info,
	})
}

// HandleImage handles GET /shots/{id}/image — serve the image bytes.
// The stored file is served verbatim unless optimize=true, in which case
// format and quality query parameters control the re-encode.
func (h *Handlers) HandleImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("screenshot ID is required"))
		return
	}

	optimize := parseBoolParam(r, "optimize")
	result, err := ops.View(r.Context(), h.deps, ops.ViewInput{
		ScreenshotID: id,
		Optimize:     &optimize,
		Quality:      parseIntParam(r, "quality", 0),
		Format:       r.URL.Query().Get("format"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.Image.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(result.Image.SizeBytes))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(result.Image.Data)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
