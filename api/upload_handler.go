package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/storage"
)

// multipartMemory is how much of a form is buffered before spilling to disk.
const multipartMemory = 32 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  *storage.Uploader
	metrics   *Metrics
}

func newUploadHandler(uploader *storage.Uploader, metrics *Metrics) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()
	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
		metrics:   metrics,
	}
}

// pendingFile is one validated part waiting to be stored.
type pendingFile struct {
	declared string
	data     []byte
}

// single stores the multipart field "file" under ?type=.
func (h uploadHandler) single() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, storage.MaxFileSize+multipartMemory)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			h.responder.WriteError(w, multipartError(err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		headers := r.MultipartForm.File["file"]
		if len(headers) == 0 {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}

		file, err := h.read(headers[0])
		if err != nil {
			h.reject(w, err)
			return
		}

		stored, err := h.uploader.Put(r.Context(), r.URL.Query().Get("type"), file.declared, file.data)
		if err != nil {
			h.reject(w, err)
			return
		}
		h.metrics.UploadsTotal.WithLabelValues("stored").Inc()
		h.responder.WriteJSON(w, stored)
	}
}

// multiple stores up to storage.MaxFiles parts named "files". Every part is
// validated before any is written.
func (h uploadHandler) multiple() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, storage.MaxFiles*storage.MaxFileSize+multipartMemory)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			h.responder.WriteError(w, multipartError(err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		headers := r.MultipartForm.File["files"]
		if len(headers) == 0 {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("files"))
			return
		}
		if len(headers) > storage.MaxFiles {
			h.responder.WriteError(w, errs.NewInvalidFieldError("files", fmt.Sprintf("at most %d files per request", storage.MaxFiles)))
			return
		}

		files := make([]pendingFile, len(headers))
		for i, header := range headers {
			file, err := h.read(header)
			if err == nil {
				_, err = storage.Inspect(file.declared, file.data)
			}
			if err != nil {
				h.reject(w, err)
				return
			}
			files[i] = file
		}

		fileType := r.URL.Query().Get("type")
		stored := make([]storage.File, len(files))
		g, ctx := errgroup.WithContext(r.Context())
		for i, file := range files {
			g.Go(func() error {
				out, err := h.uploader.Put(ctx, fileType, file.declared, file.data)
				if err != nil {
					return err
				}
				stored[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			h.reject(w, err)
			return
		}
		h.metrics.UploadsTotal.WithLabelValues("stored").Add(float64(len(stored)))
		h.responder.WriteJSON(w, stored)
	}
}

func (h uploadHandler) read(header *multipart.FileHeader) (pendingFile, error) {
	if header.Size > storage.MaxFileSize {
		return pendingFile{}, storage.ErrFileTooLarge
	}
	f, err := header.Open()
	if err != nil {
		return pendingFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxFileSize+1))
	if err != nil {
		return pendingFile{}, err
	}
	return pendingFile{declared: header.Header.Get("Content-Type"), data: data}, nil
}

// reject maps policy failures to 400 and everything else to 500.
func (h uploadHandler) reject(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrFileTooLarge):
		h.metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		h.responder.WriteError(w, errs.NewUnsupportedMediaError(err.Error()))
	default:
		h.metrics.UploadsTotal.WithLabelValues("failed").Inc()
		h.responder.WriteError(w, errs.NewInternalErrorWithCause("Internal server error", err))
	}
}

func multipartError(err error) error {
	var sizeErr *http.MaxBytesError
	if errors.As(err, &sizeErr) {
		return errs.NewUnsupportedMediaError(storage.ErrFileTooLarge.Error())
	}
	return errs.NewBadRequestError("Invalid multipart form")
}
