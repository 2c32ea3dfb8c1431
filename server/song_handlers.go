package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"songbox/cache"
	"songbox/config"
	"songbox/core/pipeline"
	"songbox/db"
	"songbox/logger"
	"songbox/model"
	"songbox/repository"

	"github.com/gorilla/mux"
)

// APIHandler serves the /music collection resource.
type APIHandler struct {
	pipe *pipeline.Pipeline
	repo repository.SongRepository
	cfg  *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(pipe *pipeline.Pipeline, repo repository.SongRepository, cfg *config.Config) *APIHandler {
	return &APIHandler{pipe: pipe, repo: repo, cfg: cfg}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writePipelineError maps a pipeline failure onto a status code and a
// generic message body. No structured error codes beyond the HTTP status.
func writePipelineError(w http.ResponseWriter, err error, fallback string) {
	var perr *pipeline.Error
	if errors.As(err, &perr) {
		switch perr.Kind {
		case pipeline.KindValidation:
			writeMessage(w, http.StatusBadRequest, perr.Message)
			return
		case pipeline.KindNotFound:
			writeMessage(w, http.StatusNotFound, perr.Message)
			return
		}
	}
	writeMessage(w, http.StatusInternalServerError, fallback)
}

func (h *APIHandler) cacheEnabled() bool {
	return db.RedisClient != nil
}

func (h *APIHandler) invalidateCatalog(ctx context.Context) {
	if !h.cacheEnabled() {
		return
	}
	if err := cache.InvalidateCatalog(ctx); err != nil {
		logger.Warn("Failed to invalidate catalog cache", logger.ErrorField(err))
	}
}

// GetSongsHandler returns the whole catalog.
func (h *APIHandler) GetSongsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cacheEnabled() {
		if songs, err := cache.GetCatalog(ctx); err != nil {
			logger.Warn("Catalog cache read failed", logger.ErrorField(err))
		} else if songs != nil {
			writeJSON(w, http.StatusOK, songs)
			return
		}
	}

	songs, err := h.repo.GetAllSongs(ctx)
	if err != nil {
		logger.Error("Failed to list songs", logger.ErrorField(err))
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	songs = emptySongs(songs)

	if h.cacheEnabled() {
		if err := cache.SetCatalog(ctx, songs, h.cfg.CatalogCacheTTL); err != nil {
			logger.Warn("Catalog cache write failed", logger.ErrorField(err))
		}
	}

	writeJSON(w, http.StatusOK, songs)
}

// CreateSongHandler handles the multipart create request: four text fields
// plus the audio and cover attachments, all required.
func (h *APIHandler) CreateSongHandler(w http.ResponseWriter, r *http.Request) {
	logger.Info("Handling song upload",
		logger.String("remoteAddr", r.RemoteAddr),
		logger.Int64("contentLength", r.ContentLength))

	// Two files plus form overhead; anything bigger is rejected outright.
	maxRequest := 2*h.cfg.MaxFileSize + (1 << 20)
	if r.ContentLength > maxRequest {
		writeMessage(w, http.StatusRequestEntityTooLarge, "Request too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequest)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		logger.Warn("Failed to parse upload form", logger.ErrorField(err))
		writeMessage(w, http.StatusBadRequest, "Failed to parse upload form")
		return
	}

	audioPath, err := h.stageFormFile(r, audioFileRule)
	if err != nil {
		h.writeStagingError(w, err)
		return
	}
	coverPath, err := h.stageFormFile(r, coverFileRule)
	if err != nil {
		h.writeStagingError(w, err)
		return
	}

	req := pipeline.CreateRequest{
		Title:     r.FormValue("title"),
		Artist:    r.FormValue("artist"),
		Album:     r.FormValue("album"),
		Genre:     r.FormValue("genre"),
		AudioPath: audioPath,
		CoverPath: coverPath,
	}

	song, err := h.pipe.CreateSong(r.Context(), req)
	if err != nil {
		logger.Error("Song create failed", logger.ErrorField(err))
		writePipelineError(w, err, "Error uploading the song")
		return
	}

	h.invalidateCatalog(r.Context())
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Song Uploaded Successfully",
		"song":    song,
	})
}

// UpdateSongHandler applies a partial update: any subset of the text
// fields, optionally replacing the audio and/or cover asset.
func (h *APIHandler) UpdateSongHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	maxRequest := 2*h.cfg.MaxFileSize + (1 << 20)
	r.Body = http.MaxBytesReader(w, r.Body, maxRequest)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		logger.Warn("Failed to parse update form", logger.ErrorField(err))
		writeMessage(w, http.StatusBadRequest, "Failed to parse update form")
		return
	}

	audioPath, err := h.stageFormFile(r, audioFileRule)
	if err != nil {
		h.writeStagingError(w, err)
		return
	}
	coverPath, err := h.stageFormFile(r, coverFileRule)
	if err != nil {
		h.writeStagingError(w, err)
		return
	}

	req := pipeline.UpdateRequest{
		Title:     r.FormValue("title"),
		Artist:    r.FormValue("artist"),
		Album:     r.FormValue("album"),
		Genre:     r.FormValue("genre"),
		AudioPath: audioPath,
		CoverPath: coverPath,
	}

	song, err := h.pipe.UpdateSong(r.Context(), id, req)
	if err != nil {
		logger.Error("Song update failed",
			logger.String("songId", id),
			logger.ErrorField(err))
		writePipelineError(w, err, "Error updating the song")
		return
	}

	h.invalidateCatalog(r.Context())
	// 201 rather than 200 on update; clients key off this code. See the
	// open-question note in DESIGN.md before changing it.
	writeJSON(w, http.StatusCreated, song)
}

// DeleteSongHandler removes the song and both its remote assets.
func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.pipe.DeleteSong(r.Context(), id); err != nil {
		logger.Error("Song delete failed",
			logger.String("songId", id),
			logger.ErrorField(err))
		writePipelineError(w, err, "Error deleting the song")
		return
	}

	h.invalidateCatalog(r.Context())
	w.WriteHeader(http.StatusOK)
}

func (h *APIHandler) writeStagingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errFileTooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, errAudioExtension), errors.Is(err, errImageExtension):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Failed to stage uploaded file", logger.ErrorField(err))
		writeMessage(w, http.StatusBadRequest, "Failed to process uploaded file")
	}
}

// emptySongs keeps the JSON shape an array even when the repo returns nil.
func emptySongs(songs []*model.Song) []*model.Song {
	if songs == nil {
		return make([]*model.Song, 0)
	}
	return songs
}
