package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/pkg/drafts"
	"github.com/goliatone/go-metaform/pkg/gesture"
	"github.com/goliatone/go-metaform/pkg/metaform"
)

type createRequest struct {
	MetaformID string             `json:"metaformId"`
	Document   *metaform.Document `json:"document,omitempty"`
}

type sessionView struct {
	ID         string              `json:"id,omitempty"`
	MetaformID string              `json:"metaformId"`
	Document   metaform.Document   `json:"document"`
	Selection  metaform.Coordinate `json:"selection"`
	Dirty      bool                `json:"dirty"`
}

type dropResponse struct {
	Applied  bool              `json:"applied"`
	Gesture  gesture.Kind      `json:"gesture"`
	Reason   string            `json:"reason,omitempty"`
	Document metaform.Document `json:"document"`
}

type sectionPatch struct {
	Title *string `json:"title"`
}

type fieldPatch struct {
	Title       *string               `json:"title"`
	Required    *bool                 `json:"required"`
	HTML        *string               `json:"html"`
	Placeholder *string               `json:"placeholder"`
	AddOption   *metaform.FieldOption `json:"addOption"`
}

func (s *Server) view(id string, e *entry) sessionView {
	doc, _ := e.session.Pending()
	return sessionView{
		ID:         id,
		MetaformID: e.metaformID,
		Document:   doc,
		Selection:  e.session.Selection(),
		Dirty:      e.session.Dirty(),
	}
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	type paletteEntry struct {
		Type        metaform.FieldType `json:"type"`
		DraggableID string             `json:"draggableId"`
	}
	out := make([]paletteEntry, 0, len(s.palette))
	for _, t := range s.palette {
		out = append(out, paletteEntry{Type: t, DraggableID: metaform.PaletteDraggableID(t)})
	}
	writeJSON(w, s.logger, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.MetaformID == "" {
		writeError(w, s.logger, http.StatusBadRequest, "INVALID_BODY", "metaformId is required")
		return
	}

	var doc metaform.Document
	if req.Document != nil {
		doc = *req.Document
	} else {
		draft, err := s.store.Get(r.Context(), req.MetaformID)
		if errors.Is(err, drafts.ErrNotFound) {
			writeError(w, s.logger, http.StatusNotFound, "NOT_FOUND", "no draft for metaform "+req.MetaformID)
			return
		}
		if err != nil {
			s.logger.Error("load draft", zap.String("metaform", req.MetaformID), zap.Error(err))
			writeError(w, s.logger, http.StatusInternalServerError, "INTERNAL", "could not load draft")
			return
		}
		doc = draft.Document
	}

	id, e := s.open(req.MetaformID, doc)
	s.logger.Info("session opened", zap.String("session", id.String()), zap.String("metaform", req.MetaformID))
	writeJSON(w, s.logger, http.StatusCreated, s.view(id.String(), e))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.logger, http.StatusOK, s.view(chi.URLParam(r, "sessionID"), e))
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.lookup(w, r); !ok {
		return
	}
	id := uuid.MustParse(chi.URLParam(r, "sessionID"))
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var ev gesture.DropEvent
	if err := decodeJSON(w, r, &ev); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "INVALID_BODY", "invalid drop event")
		return
	}

	g, err := e.session.Drop(ev)
	resp := dropResponse{Applied: err == nil, Gesture: g.Kind()}
	if err != nil {
		resp.Reason = err.Error()
	}
	resp.Document, _ = e.session.Pending()
	writeJSON(w, s.logger, http.StatusOK, resp)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var c metaform.Coordinate
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "INVALID_BODY", "invalid selection")
		return
	}
	s.respondEdit(w, r, e, e.session.Select(c))
}

func (s *Server) handlePatchSection(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var patch sectionPatch
	if err := decodeJSON(w, r, &patch); err != nil || patch.Title == nil {
		writeError(w, s.logger, http.StatusBadRequest, "INVALID_BODY", "title is required")
		return
	}
	s.respondEdit(w, r, e, e.session.SetSectionTitle(*patch.Title))
}

func (s *Server) handlePatchField(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var patch fieldPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "INVALID_BODY", "invalid field patch")
		return
	}
	err := e.session.UpdateField(func(doc metaform.Document, section int, field metaform.Field) metaform.Field {
		if patch.Title != nil {
			field = metaform.RenameField(field, *patch.Title, doc.Sections[section].Title)
		}
		if patch.Required != nil {
			field.Required = *patch.Required
		}
		if patch.HTML != nil {
			field.HTML = *patch.HTML
		}
		if patch.Placeholder != nil {
			field.Placeholder = *patch.Placeholder
		}
		if patch.AddOption != nil {
			field = metaform.AddFieldOption(field, *patch.AddOption)
		}
		return field
	})
	s.respondEdit(w, r, e, err)
}

func (s *Server) handleRemoveOption(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "option"))
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "INVALID_ID", "invalid option index")
		return
	}
	s.respondEdit(w, r, e, e.session.RemoveOption(idx))
}

func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.respondEdit(w, r, e, e.session.AddSection())
}

func (s *Server) handleRemoveSelected(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.respondEdit(w, r, e, e.session.RemoveSelected())
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.respondEdit(w, r, e, e.session.Discard())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := e.session.Save(r.Context(), drafts.Saver(s.store, e.metaformID)); err != nil {
		s.logger.Error("save draft", zap.String("metaform", e.metaformID), zap.Error(err))
		writeError(w, s.logger, http.StatusBadGateway, "SAVE_FAILED", "could not save draft")
		return
	}
	writeJSON(w, s.logger, http.StatusOK, s.view(chi.URLParam(r, "sessionID"), e))
}

func (s *Server) respondEdit(w http.ResponseWriter, r *http.Request, e *entry, err error) {
	if err != nil {
		status, code := editStatus(err)
		writeError(w, s.logger, status, code, err.Error())
		return
	}
	writeJSON(w, s.logger, http.StatusOK, s.view(chi.URLParam(r, "sessionID"), e))
}
