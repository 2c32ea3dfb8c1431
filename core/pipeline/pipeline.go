package pipeline

import (
	"context"
	"os"

	"songbox/logger"
	"songbox/model"
	"songbox/repository"
	"songbox/storage"

	"github.com/google/uuid"
)

// Pipeline coordinates asset-store uploads with metadata persistence for
// the create, update and delete workflows. Within one request everything
// runs strictly sequentially: uploads before the repository write, and on
// update the new asset is uploaded before the old one is deleted. There is
// no compensation step when a later stage fails after an earlier upload
// succeeded.
type Pipeline struct {
	repo  repository.SongRepository
	store storage.AssetStore
}

// New creates a pipeline over the given repository and asset store.
func New(repo repository.SongRepository, store storage.AssetStore) *Pipeline {
	return &Pipeline{repo: repo, store: store}
}

// CreateRequest carries the metadata fields and the locally staged files
// for a new song. Both file paths are required.
type CreateRequest struct {
	Title  string
	Artist string
	Album  string
	Genre  string

	AudioPath string
	CoverPath string
}

// UpdateRequest carries a partial update. Empty text fields are left
// untouched; empty file paths mean the corresponding asset keeps its
// current object.
type UpdateRequest struct {
	Title  string
	Artist string
	Album  string
	Genre  string

	AudioPath string
	CoverPath string
}

// CreateSong validates the request, uploads the cover and then the audio
// file to the asset store, and persists exactly one song referencing both.
// A failed upload aborts the whole operation with no repository write; an
// object already uploaded by an earlier step is not removed.
func (p *Pipeline) CreateSong(ctx context.Context, req CreateRequest) (*model.Song, error) {
	if req.Title == "" || req.Artist == "" || req.Album == "" || req.Genre == "" ||
		req.AudioPath == "" || req.CoverPath == "" {
		return nil, validationError("All fields are required")
	}

	cover, err := p.store.Upload(ctx, req.CoverPath, storage.CategoryImage)
	if err != nil {
		return nil, assetError("Failed to upload cover image", err)
	}

	audio, err := p.store.Upload(ctx, req.AudioPath, storage.CategoryAudio)
	if err != nil {
		return nil, assetError("Failed to upload song file", err)
	}

	song := &model.Song{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Artist:     req.Artist,
		Album:      req.Album,
		Genre:      req.Genre,
		File:       model.AssetRef{AssetID: audio.ID, URL: audio.URL},
		CoverImage: model.AssetRef{AssetID: cover.ID, URL: cover.URL},
	}

	if err := p.repo.CreateSong(ctx, song); err != nil {
		return nil, persistenceError("Failed to create song record", err)
	}

	// The response does not wait on staged-file cleanup.
	go p.removeStagedFiles(req.AudioPath, req.CoverPath)

	logger.Info("Song created",
		logger.String("songId", song.ID),
		logger.String("title", song.Title))
	return song, nil
}

// UpdateSong looks up the song, swaps any attached replacement assets
// (upload new, then delete old), overwrites any provided text fields
// verbatim and persists the result as a single save. A failure after a
// partial swap leaves the record and the asset store inconsistent; there
// is no rollback.
func (p *Pipeline) UpdateSong(ctx context.Context, id string, req UpdateRequest) (*model.Song, error) {
	song, err := p.repo.GetSongByID(ctx, id)
	if err != nil {
		return nil, persistenceError("Failed to look up song", err)
	}
	if song == nil {
		return nil, notFoundError("Song not found that match id " + id)
	}

	if req.CoverPath != "" {
		cover, err := p.store.Upload(ctx, req.CoverPath, storage.CategoryImage)
		if err != nil {
			return nil, assetError("Failed to upload cover image", err)
		}
		if err := p.store.Delete(ctx, song.CoverImage.AssetID); err != nil {
			return nil, assetError("Failed to delete previous cover image", err)
		}
		song.CoverImage = model.AssetRef{AssetID: cover.ID, URL: cover.URL}
		p.removeStagedFiles(req.CoverPath)
	}

	if req.AudioPath != "" {
		audio, err := p.store.Upload(ctx, req.AudioPath, storage.CategoryAudio)
		if err != nil {
			return nil, assetError("Failed to upload song file", err)
		}
		if err := p.store.Delete(ctx, song.File.AssetID); err != nil {
			return nil, assetError("Failed to delete previous song file", err)
		}
		song.File = model.AssetRef{AssetID: audio.ID, URL: audio.URL}
		p.removeStagedFiles(req.AudioPath)
	}

	if req.Title != "" {
		song.Title = req.Title
	}
	if req.Artist != "" {
		song.Artist = req.Artist
	}
	if req.Album != "" {
		song.Album = req.Album
	}
	if req.Genre != "" {
		song.Genre = req.Genre
	}

	if err := p.repo.UpdateSong(ctx, song); err != nil {
		return nil, persistenceError("Failed to save song record", err)
	}

	logger.Info("Song updated", logger.String("songId", song.ID))
	return song, nil
}

// DeleteSong removes the record by id and then deletes both remote assets.
// Asset-store failures after the record is gone are logged, not surfaced;
// the record's removal already committed.
func (p *Pipeline) DeleteSong(ctx context.Context, id string) (*model.Song, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, validationError("Invalid song ID")
	}

	song, err := p.repo.DeleteSongByID(ctx, id)
	if err != nil {
		return nil, persistenceError("Failed to delete song record", err)
	}
	if song == nil {
		return nil, notFoundError("Song not found that match id " + id)
	}

	if err := p.store.Delete(ctx, song.CoverImage.AssetID); err != nil {
		logger.Warn("Failed to delete cover asset after record removal",
			logger.String("songId", id),
			logger.String("assetId", song.CoverImage.AssetID),
			logger.ErrorField(err))
	}
	if err := p.store.Delete(ctx, song.File.AssetID); err != nil {
		logger.Warn("Failed to delete audio asset after record removal",
			logger.String("songId", id),
			logger.String("assetId", song.File.AssetID),
			logger.ErrorField(err))
	}

	logger.Info("Song deleted", logger.String("songId", id))
	return song, nil
}

// removeStagedFiles deletes locally staged upload files. Failures are
// logged and never escalated; the janitor sweeps anything left behind.
func (p *Pipeline) removeStagedFiles(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil {
			logger.Warn("Failed to remove staged file",
				logger.String("path", path),
				logger.ErrorField(err))
		} else {
			logger.Debug("Removed staged file", logger.String("path", path))
		}
	}
}
