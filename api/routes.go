package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/portfolio-cms-backend/storage"
)

// access selects which resource routes skip the auth guard.
type access int

const (
	// publicReads leaves list and get open; writes need a token.
	publicReads access = iota
	// publicCreate also leaves create open, so visitors can book meetings.
	publicCreate
)

// setupRoutes mounts every endpoint; mutating routes sit behind the guard.
func setupRoutes(r chi.Router, handlers *routeHandlers, guard authMiddleware) {
	r.Get("/health", handlers.health.check())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", handlers.auth.login())
			r.Post("/logout", handlers.auth.logout())
			r.With(guard.authenticate).Get("/me", handlers.auth.me())
		})

		mountResource(r, "/projects", handlers.projects, guard, publicReads)
		mountResource(r, "/certifications", handlers.certifications, guard, publicReads)
		mountResource(r, "/hackathons", handlers.hackathons, guard, publicReads)
		mountResource(r, "/education", handlers.education, guard, publicReads)
		mountResource(r, "/experiences", handlers.experiences, guard, publicReads)
		mountResource(r, "/articles", handlers.articles, guard, publicReads)
		mountResource(r, "/categories", handlers.categories, guard, publicReads)
		mountResource(r, "/bookings", handlers.bookings, guard, publicCreate)

		r.Get("/settings", handlers.settings.get())
		r.With(guard.authenticate).Put("/settings", handlers.settings.put())

		if handlers.upload != nil {
			r.Group(func(r chi.Router) {
				r.Use(guard.authenticate)
				r.Post("/upload", handlers.upload.single())
				r.Post("/upload/multiple", handlers.upload.multiple())
			})
		}
	})
}

// mountResource registers the five CRUD routes for one resource kind.
func mountResource(r chi.Router, path string, h crudHandler, guard authMiddleware, mode access) {
	r.Route(path, func(r chi.Router) {
		create := r.With(guard.authenticate)
		if mode == publicCreate {
			create = r.With()
		}

		r.Get("/", h.list())
		r.Get("/{id}", h.get())
		create.Post("/", h.create())

		r.Group(func(r chi.Router) {
			r.Use(guard.authenticate)
			r.Put("/{id}", h.update())
			r.Delete("/{id}", h.remove())
		})
	})
}

// mountStatic serves stored uploads read-only from dir.
func mountStatic(r chi.Router, dir string) {
	fs := http.StripPrefix(storage.UploadsPath+"/", http.FileServer(noDirFS{http.Dir(dir)}))
	r.Get(storage.UploadsPath+"/*", fs.ServeHTTP)
}

// noDirFS hides directories so the file server never renders a listing.
type noDirFS struct {
	fs http.FileSystem
}

func (n noDirFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
