package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ghaggin/eduarchive/internal/auth"
	"github.com/ghaggin/eduarchive/internal/storage"
	"go.uber.org/zap"
)

// Room for the metadata fields and multipart framing on top of the file.
const maxUploadBody = 2 * storage.MaxUploadSize

type paperForm struct {
	Title       string   `json:"title" validate:"required"`
	Department  string   `json:"department" validate:"required"`
	Year        string   `json:"year" validate:"required"`
	Semester    string   `json:"semester" validate:"required"`
	ExamType    string   `json:"examType" validate:"required"`
	Professor   string   `json:"professor" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Pages       int      `json:"pages" validate:"required,gt=0"`
	IsPremium   bool     `json:"isPremium"`
	Keywords    []string `json:"keywords" validate:"required,min=1"`
}

func splitKeywords(raw string) []string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func (h *handlers) uploadPaper(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File exceeds the 10MB limit.")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	pages, _ := strconv.Atoi(r.FormValue("pages"))
	isPremium, _ := strconv.ParseBool(r.FormValue("isPremium"))
	form := paperForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Department:  strings.TrimSpace(r.FormValue("department")),
		Year:        strings.TrimSpace(r.FormValue("year")),
		Semester:    strings.TrimSpace(r.FormValue("semester")),
		ExamType:    strings.TrimSpace(r.FormValue("examType")),
		Professor:   strings.TrimSpace(r.FormValue("professor")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Pages:       pages,
		IsPremium:   isPremium,
		Keywords:    splitKeywords(r.FormValue("keywords")),
	}
	if err := h.validate.Struct(form); err != nil {
		writeError(w, http.StatusBadRequest, "All paper fields are required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file or empty file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	err = storage.Validate(header.Filename, contentType, header.Size)
	var verr *storage.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}

	obj, err := h.store.Put(r.Context(), storage.ObjectKey(header.Filename), file, header.Size, contentType)
	if err != nil {
		h.log.Error("store paper", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	h.log.Info("paper uploaded",
		zap.String("key", obj.Key),
		zap.String("by", auth.SessionFromContext(r.Context()).SubjectID),
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"file":    obj,
		"paper":   form,
	})
}
