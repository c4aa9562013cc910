package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/export"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// handleDashboard renders the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var groups []dashboardGroup
	for _, name := range core.Groups() {
		defs := core.ByGroup(name)
		infos := make([]core.ScreenInfo, len(defs))
		for i, def := range defs {
			infos[i] = def.Info
		}
		groups = append(groups, dashboardGroup{Name: name, Screens: infos})
	}
	s.render(w, r, Dashboard(groups))
}

// handleScreen renders a list screen for the state in the query string.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	def, err := core.Lookup(chi.URLParam(r, "screenKey"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	st := parseTableState(r.URL.Query(), def, s.cfg.Table)
	t, err := s.openTable(r.Context(), def, st)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer t.Close()

	s.render(w, r, ScreenPage(buildScreenView(def, st, t)))
}

// handleListScreens returns every registered screen.
func (s *Server) handleListScreens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, core.Screens())
}

// handleRows answers one parameter snapshot with a page of rows. It is the
// endpoint remote tables emit to.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	def, err := core.Lookup(chi.URLParam(r, "screenKey"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	st := parseTableState(r.URL.Query(), def, s.cfg.Table)
	page, err := s.backend.FetchPage(r.Context(), def.Info.Key, st.params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, page)
}

// handleExport downloads every row matching the current search, filters
// and sort as CSV or Excel.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	def, err := core.Lookup(chi.URLParam(r, "screenKey"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %w", core.ErrInvalidParams, err))
		return
	}

	st := parseTableState(r.URL.Query(), def, s.cfg.Table)
	rows, err := s.matchingRows(r.Context(), def, st)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, def.Info.Label, def.Columns(), rows); err != nil {
		s.respondError(w, r, fmt.Errorf("export %s: %w", def.Info.Key, err))
		return
	}

	filename := export.Filename(def.Info.Key, format, time.Now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("export write failed",
			"screen", def.Info.Key,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
	}
}

// render writes an HTML component, logging failures since headers are
// already sent.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render failed",
			"path", r.URL.Path,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
	}
}
