package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"server/internal/edit"
)

type generateResponse struct {
	Success bool     `json:"success"`
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Images  []string `json:"images"`
}

// Generate handles POST multipart requests carrying one prompt, one image,
// and an optional model override. Auth and rate limiting run as middleware
// before this handler; everything downstream is the edit service's job.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	// One megabyte of headroom over the file ceiling for the other form
	// parts. An oversized body gets the same reason string the validator
	// would produce, since the only thing that can blow the limit is the file.
	limit := a.Config.MaxFileSize + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			a.error(w, http.StatusBadRequest, fmt.Sprintf("File must be under %d MB", a.Config.MaxFileSize>>20))
			return
		}
		a.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	req := edit.Request{
		Prompt: r.FormValue("prompt"),
		Model:  r.FormValue("model"),
		Image:  a.formImage(r),
	}

	result, err := a.Edit.Edit(r.Context(), req)
	if err != nil {
		a.respondEditError(w, r, err)
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		Success: true,
		Model:   result.Model,
		Prompt:  result.Prompt,
		Images:  result.Images,
	})
}

func (a *App) formImage(r *http.Request) *edit.ImageUpload {
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil
	}
	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return &edit.ImageUpload{
		Filename: header.Filename,
		MIME:     mime,
		Size:     header.Size,
		Data:     data,
	}
}

func (a *App) respondEditError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *edit.ValidationError
	var submissionErr *edit.SubmissionError
	var providerErr *edit.ProviderError
	var noOutputErr *edit.NoOutputError

	switch {
	case errors.As(err, &validationErr):
		a.error(w, http.StatusBadRequest, validationErr.Reason)
	case errors.Is(err, edit.ErrProviderUnconfigured):
		a.error(w, http.StatusServiceUnavailable, "Image generation is not configured")
	case errors.As(err, &submissionErr):
		a.Logger.Error().Err(err).Msg("prediction submission failed")
		a.error(w, http.StatusInternalServerError, "Failed to start prediction")
	case errors.Is(err, edit.ErrTimeout):
		a.error(w, http.StatusRequestTimeout, "Generation timed out, please try again")
	case errors.As(err, &providerErr):
		a.Logger.Error().Err(err).Msg("prediction failed")
		a.error(w, http.StatusInternalServerError, "Prediction failed: "+providerErr.Message)
	case errors.As(err, &noOutputErr):
		if noOutputErr.EmptyObjects {
			a.error(w, http.StatusInternalServerError, "The model returned empty output; check the input image and parameters")
		} else {
			a.error(w, http.StatusInternalServerError, "No valid images produced")
		}
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected generate error")
		a.error(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
