package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"pagalpdf/internal/config"
	"pagalpdf/internal/convert"
	"pagalpdf/internal/domain"
	"pagalpdf/internal/httputil"
)

// ConvertHandler serves the conversion endpoints. One route per catalog
// operation, all the same shape: multipart upload in, converted document out.
type ConvertHandler struct {
	service *convert.Service
	logger  *slog.Logger
}

func NewConvertHandler(service *convert.Service, logger *slog.Logger) *ConvertHandler {
	return &ConvertHandler{service: service, logger: logger}
}

// Register mounts every catalog operation under /api/convert/.
func (h *ConvertHandler) Register(mux *http.ServeMux) {
	for _, name := range h.service.Catalog().Names() {
		op, _ := h.service.Catalog().Get(name)
		if name == "merge" {
			mux.HandleFunc("POST /api/convert/merge", h.merge(op))
			continue
		}
		mux.HandleFunc("POST /api/convert/"+name, h.single(op))
	}
}

// single handles every one-file-in, one-file-out operation.
func (h *ConvertHandler) single(op *convert.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, err := httputil.ReadUpload(w, r, "file")
		if err != nil {
			handleError(w, h.logger, err)
			return
		}

		if !op.Accepts(upload.MediaType, upload.Filename) {
			handleError(w, h.logger, &domain.ValidationError{
				Message: "File type not supported for this conversion.",
			})
			return
		}

		args, err := argsFor(op.Name, r)
		if err != nil {
			handleError(w, h.logger, err)
			return
		}

		result, err := h.service.Convert(r.Context(), op, upload, args)
		if err != nil {
			handleError(w, h.logger, err)
			return
		}

		httputil.RespondFile(w, result.ContentType, result.Filename, result.Data)
	}
}

// merge handles the multi-file concatenation endpoint. Files arrive in form
// order and are merged in that order.
func (h *ConvertHandler) merge(op *convert.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uploads, err := httputil.ReadUploads(w, r, "files", 2, config.MaxMergeFiles)
		if err != nil {
			handleError(w, h.logger, err)
			return
		}

		for _, upload := range uploads {
			if !op.Accepts(upload.MediaType, upload.Filename) {
				handleError(w, h.logger, &domain.ValidationError{
					Message: "All files must be PDF documents.",
				})
				return
			}
		}

		result, err := h.service.Merge(r.Context(), uploads)
		if err != nil {
			handleError(w, h.logger, err)
			return
		}

		httputil.RespondFile(w, result.ContentType, result.Filename, result.Data)
	}
}

// argsFor validates the operation's form parameters and renders them as
// worker arguments. Operations without parameters return nil.
func argsFor(name string, r *http.Request) ([]string, error) {
	switch name {
	case "watermark":
		p := convert.NewWatermarkParams()
		p.Text = r.FormValue("text")
		if v := r.FormValue("position"); v != "" {
			p.Position = v
		}
		if v := r.FormValue("color"); v != "" {
			p.Color = v
		}
		if v, ok, err := formFloat(r, "font_size"); err != nil {
			return nil, err
		} else if ok {
			p.FontSize = v
		}
		if v, ok, err := formFloat(r, "opacity"); err != nil {
			return nil, err
		} else if ok {
			p.Opacity = v
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p.Args(), nil

	case "protect", "unlock":
		p := &convert.PasswordParams{Password: r.FormValue("password")}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p.Args(), nil

	case "pdf-ocr":
		p := &convert.OCRParams{Language: r.FormValue("language")}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p.Args(), nil

	case "rotate":
		angle, err := formInt(r, "angle")
		if err != nil {
			return nil, err
		}
		p := &convert.RotateParams{Angle: angle}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p.Args(), nil

	case "split":
		p := &convert.SplitParams{Pages: r.FormValue("pages")}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p.Args(), nil

	default:
		return nil, nil
	}
}

// formFloat parses an optional float field, reporting whether it was
// present at all so absent and explicit-zero stay distinguishable.
func formFloat(r *http.Request, field string) (float64, bool, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, &domain.ValidationError{Message: "Invalid value for " + field + "."}
	}
	return v, true, nil
}

func formInt(r *http.Request, field string) (int, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Message: "Invalid value for " + field + "."}
	}
	return v, nil
}
