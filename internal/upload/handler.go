package upload

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/csrf"
	"github.com/and161185/wzs-web/internal/errs"
	"github.com/and161185/wzs-web/internal/web"
)

// Response is the JSON body returned for a stored file.
type Response struct {
	Path             string `json:"path"`
	OriginalFilename string `json:"original_filename"`
	Bytes            int    `json:"bytes"`
	ContentType      string `json:"content_type"`
}

// Handler accepts multipart/form-data and stores the first file part.
type Handler struct {
	svc     *Service
	csrf    config.CSRF
	maxBody int64
	log     *zap.Logger
}

// NewHandler builds the upload endpoint. maxBody <= 0 disables the size cap.
func NewHandler(svc *Service, csrfCfg config.CSRF, maxBody int64, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, csrf: csrfCfg, maxBody: maxBody, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !csrf.Required(r, h.csrf) {
		web.WriteError(w, http.StatusUnauthorized, errs.ErrCSRF.Error())
		return
	}
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "expected multipart/form-data")
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.badBody(w, err)
			return
		}
		name := fileName(part)
		if name == "" {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			h.badBody(w, err)
			return
		}

		res, err := h.svc.Upload(r.Context(), name, part.Header.Get("Content-Type"), data)
		if err != nil {
			h.log.Error("upload failed", zap.String("filename", name), zap.Error(err))
			web.WriteError(w, http.StatusInternalServerError, "save error")
			return
		}
		h.log.Info("upload stored",
			zap.String("key", res.Key),
			zap.Int("bytes", res.Bytes),
			zap.String("content_type", res.ContentType),
		)
		web.WriteJSON(w, http.StatusOK, Response{
			Path:             "/" + res.Key,
			OriginalFilename: name,
			Bytes:            res.Bytes,
			ContentType:      res.ContentType,
		})
		return
	}
	web.WriteError(w, http.StatusBadRequest, "no file")
}

func (h *Handler) badBody(w http.ResponseWriter, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		web.WriteError(w, http.StatusBadRequest, "request body too large")
		return
	}
	h.log.Info("malformed multipart body", zap.Error(err))
	web.WriteError(w, http.StatusBadRequest, "read body error")
}

// fileName returns the filename parameter of the part's Content-Disposition
// verbatim. Part.FileName applies filepath.Base, which would drop directories
// the generic branch turns into underscores.
func fileName(p *multipart.Part) string {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}
