package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// repository is the storage contract behind a resource handler.
type repository[M any] interface {
	FindAll(ctx context.Context, filter database.ListFilter) ([]M, error)
	Find(ctx context.Context, key string) (*M, error)
	Add(ctx context.Context, row *M) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*M, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// crudHandler is mounted by mountResource.
type crudHandler interface {
	list() http.HandlerFunc
	get() http.HandlerFunc
	create() http.HandlerFunc
	update() http.HandlerFunc
	remove() http.HandlerFunc
}

// resourceHandler serves list/get/create/update/delete for one table. I is
// the typed request body for M.
type resourceHandler[M any, I models.Input[M]] struct {
	responder Responder
	logger    zerolog.Logger
	repo      repository[M]
	entity    string
	// created runs after a successful insert.
	created func(ctx context.Context, row *M)
}

func newResourceHandler[M any, I models.Input[M]](entity string, repo repository[M]) resourceHandler[M, I] {
	logger := log.With().Str("handlerName", entity+"Handler").Logger()
	return resourceHandler[M, I]{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
		entity:    entity,
	}
}

func (h resourceHandler[M, I]) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		rows, err := h.repo.FindAll(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", h.entity, err))
			return
		}
		h.responder.WriteJSON(w, rows)
	}
}

// get looks the row up by slug or by id, whichever the table is addressed by.
func (h resourceHandler[M, I]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := h.repo.Find(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		h.responder.WriteJSON(w, row)
	}
}

func (h resourceHandler[M, I]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in I
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := in.ValidateCreate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		row := in.Model()
		if err := h.repo.Add(r.Context(), row); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", h.entity, err))
			return
		}
		if h.created != nil {
			h.created(r.Context(), row)
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, row)
	}
}

func (h resourceHandler[M, I]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, h.entity)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in I
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := in.ValidateUpdate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		row, err := h.repo.Update(r.Context(), id, in.Updates())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", h.entity, err))
			return
		}
		h.responder.WriteJSON(w, row)
	}
}

func (h resourceHandler[M, I]) remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, h.entity)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.repo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", h.entity, err))
			return
		}
		h.responder.WriteJSON(w, deleteResponse{Success: true, ID: id})
	}
}

type deleteResponse struct {
	Success bool      `json:"success"`
	ID      uuid.UUID `json:"id"`
}

// parseListFilter reads status, featured, limit and category. Only
// featured=true filters; a limit must be a positive integer.
func parseListFilter(r *http.Request) (database.ListFilter, error) {
	q := r.URL.Query()
	filter := database.ListFilter{
		Status:   q.Get("status"),
		Featured: q.Get("featured") == "true",
		Category: q.Get("category"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, errs.NewInvalidFieldError("limit", "must be a positive integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

// parseID reads the {id} URL parameter. A value that is not a UUID cannot
// match any row, so it is reported as not found.
func parseID(r *http.Request, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, wrapDatabaseError("find", entity, gorm.ErrRecordNotFound)
	}
	return id, nil
}
