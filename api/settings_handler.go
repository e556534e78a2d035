package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type settingsHandler struct {
	responder Responder
	logger    zerolog.Logger
	repo      *database.SettingsRepo
}

func newSettingsHandler(repo *database.SettingsRepo) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()
	return settingsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
	}
}

// get folds the whole settings table into one object.
func (h settingsHandler) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeAll(w, r)
	}
}

// put upserts every supplied key and answers with the refreshed object.
func (h settingsHandler) put() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.SettingsInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		for key := range in {
			if strings.TrimSpace(key) == "" {
				h.responder.WriteError(w, errs.NewInvalidFieldError("key", "must not be empty"))
				return
			}
		}

		if err := h.repo.Upsert(r.Context(), in.Rows()); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("upsert", "setting", err))
			return
		}
		h.writeAll(w, r)
	}
}

func (h settingsHandler) writeAll(w http.ResponseWriter, r *http.Request) {
	rows, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "settings", err))
		return
	}
	h.responder.WriteJSON(w, models.FoldSettings(rows))
}
