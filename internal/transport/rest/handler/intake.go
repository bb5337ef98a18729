package handler

import (
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"surakshaconnect/internal/model"
	"surakshaconnect/internal/service"
)

const maxUploadMemory = 32 << 20

// IntakeHandler handles the multimodal and voice report forms
type IntakeHandler struct {
	intakeSvc *service.IntakeService
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intakeSvc *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeSvc: intakeSvc}
}

// ProcessMultimodal handles POST /v1/process-multimodal
func (h *IntakeHandler) ProcessMultimodal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process multimodal report")
		return
	}
	defer r.MultipartForm.RemoveAll()

	analysis, err := h.intakeSvc.ProcessMultimodal(r.Context(), r.FormValue("text"), imagesFromForm(r.MultipartForm))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
	})
}

// ProcessVoice handles POST /v1/process-voice
func (h *IntakeHandler) ProcessVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process voice report")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var audio *model.AudioInfo
	if files := r.MultipartForm.File["audio"]; len(files) > 0 {
		audio = &model.AudioInfo{
			Filename:    files[0].Filename,
			Size:        files[0].Size,
			ContentType: files[0].Header.Get("Content-Type"),
		}
	}

	result, err := h.intakeSvc.ProcessVoice(r.Context(), r.FormValue("language"), audio)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// imagesFromForm collects every image_* file part, ordered by field name
func imagesFromForm(form *multipart.Form) []model.ImageInfo {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		if strings.HasPrefix(field, "image_") {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	images := make([]model.ImageInfo, 0, len(fields))
	for _, field := range fields {
		for _, fh := range form.File[field] {
			images = append(images, model.ImageInfo{
				Field:       field,
				Filename:    fh.Filename,
				Size:        fh.Size,
				ContentType: fh.Header.Get("Content-Type"),
			})
		}
	}
	return images
}
