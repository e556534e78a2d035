package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

const projectEntity = "project"

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
}

func newProjectHandler(projectRepo *database.ProjectRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
	}
}

// list returns projects with their screenshots, newest first.
// Supports ?status=, ?featured=true, ?limit= and ?category=<slug>.
func (h projectHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.projectRepo.FindAll(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", projectEntity, err))
			return
		}
		h.responder.WriteJSON(w, projects)
	}
}

// get returns one project by slug with its category and screenshots.
func (h projectHandler) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.projectRepo.FindBySlug(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", projectEntity, err))
			return
		}
		h.responder.WriteJSON(w, models.NewProjectDetail(*project))
	}
}

// create inserts a project and its screenshots in one transaction.
func (h projectHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.ProjectInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := in.ValidateCreate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.Add(r.Context(), in.Model(), in.ScreenshotRows)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create project", projectEntity, err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// update patches a project. A screenshots array replaces the whole set;
// omitting it leaves the existing screenshots alone.
func (h projectHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseID(r, projectEntity)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in models.ProjectInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := in.ValidateUpdate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.Update(r.Context(), projectID, in.Updates(), in.ScreenshotRows(projectID))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", projectEntity, err))
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// remove deletes a project; its screenshots cascade.
func (h projectHandler) remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseID(r, projectEntity)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete project", projectEntity, err))
			return
		}
		h.responder.WriteJSON(w, deleteResponse{Success: true, ID: projectID})
	}
}
