package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
	"github.com/MeKo-Tech/colorconverter/internal/converter"
	"github.com/MeKo-Tech/colorconverter/internal/palette"
)

// editRequest is the body of POST /api/edit.
type editRequest struct {
	Field *converter.Field `json:"field"`
	Text  string           `json:"text"`
}

// paletteEntry is the JSON form of a stored color.
type paletteEntry struct {
	Name string `json:"name"`
	colorspace.Text
}

type saveRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// API serves the converter and palette endpoints.
type API struct {
	palette *palette.Store
	logger  *slog.Logger
}

// NewAPI creates the API. store may be nil, in which case the palette
// endpoints answer 404.
func NewAPI(store *palette.Store, logger *slog.Logger) *API {
	return &API{palette: store, logger: logger}
}

// Register adds the API routes to mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/edit", a.handleEdit)
	mux.HandleFunc("POST /api/edit", a.handleEdit)
	mux.HandleFunc("GET /api/palette", a.handleListPalette)
	mux.HandleFunc("POST /api/palette", a.handleSavePalette)
	mux.HandleFunc("DELETE /api/palette/{name}", a.handleDeletePalette)
}

// handleEdit applies one field edit and returns the update for the other
// two fields. GET takes field and text query parameters.
func (a *API) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Field == nil {
			a.writeError(w, http.StatusBadRequest, "missing field: must be hex, rgb or hsl")
			return
		}
	} else {
		f, err := converter.ParseField(r.URL.Query().Get("field"))
		if err != nil {
			a.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Field = &f
		req.Text = r.URL.Query().Get("text")
	}

	a.writeJSON(w, http.StatusOK, converter.OnFieldEdited(*req.Field, req.Text))
}

func (a *API) handleListPalette(w http.ResponseWriter, r *http.Request) {
	if a.palette == nil {
		http.NotFound(w, r)
		return
	}

	entries, err := a.palette.List(r.Context())
	if err != nil {
		a.log().Error("failed to list palette", "error", err)
		a.writeError(w, http.StatusInternalServerError, "failed to list palette")
		return
	}

	out := make([]paletteEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, paletteEntry{Name: e.Name, Text: colorspace.Describe(e.Color())})
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) handleSavePalette(w http.ResponseWriter, r *http.Request) {
	if a.palette == nil {
		http.NotFound(w, r)
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := a.palette.Save(r.Context(), req.Name, req.Color)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.log().Info("palette color saved", "name", e.Name, "hex", e.Hex)
	a.writeJSON(w, http.StatusCreated, paletteEntry{Name: e.Name, Text: colorspace.Describe(e.Color())})
}

func (a *API) handleDeletePalette(w http.ResponseWriter, r *http.Request) {
	if a.palette == nil {
		http.NotFound(w, r)
		return
	}

	name := r.PathValue("name")
	if err := a.palette.Delete(r.Context(), name); err != nil {
		if errors.Is(err, palette.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		a.log().Error("failed to delete palette color", "name", name, "error", err)
		a.writeError(w, http.StatusInternalServerError, "failed to delete color")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log().Error("failed to write response", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, errorResponse{Error: msg})
}

func (a *API) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.Default()
}
