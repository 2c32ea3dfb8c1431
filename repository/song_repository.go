package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"songbox/model"
)

// SongRepository defines the interface for song data operations.
// Absent rows are reported as (nil, nil), not as errors.
type SongRepository interface {
	CreateSong(ctx context.Context, song *model.Song) error
	GetAllSongs(ctx context.Context) ([]*model.Song, error)
	GetSongByID(ctx context.Context, id string) (*model.Song, error)
	UpdateSong(ctx context.Context, song *model.Song) error
	DeleteSongByID(ctx context.Context, id string) (*model.Song, error)
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	db *sql.DB
}

// NewMySQLSongRepository creates a new instance of mysqlSongRepository.
func NewMySQLSongRepository(db *sql.DB) SongRepository {
	return &mysqlSongRepository{db: db}
}

const songColumns = `id, title, artist, album, genre, file_asset_id, file_url, cover_asset_id, cover_url, created_at, updated_at`

func scanSong(row interface{ Scan(dest ...any) error }) (*model.Song, error) {
	song := &model.Song{}
	err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.Genre,
		&song.File.AssetID, &song.File.URL,
		&song.CoverImage.AssetID, &song.CoverImage.URL,
		&song.CreatedAt, &song.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return song, nil
}

// CreateSong inserts a new song. The caller supplies the generated id.
func (r *mysqlSongRepository) CreateSong(ctx context.Context, song *model.Song) error {
	query := `INSERT INTO songs (id, title, artist, album, genre, file_asset_id, file_url, cover_asset_id, cover_url, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for CreateSong: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	song.CreatedAt = now
	song.UpdatedAt = now

	_, err = stmt.ExecContext(ctx, song.ID, song.Title, song.Artist, song.Album, song.Genre,
		song.File.AssetID, song.File.URL,
		song.CoverImage.AssetID, song.CoverImage.URL,
		now, now)
	if err != nil {
		return fmt.Errorf("failed to execute CreateSong: %w", err)
	}
	return nil
}

// GetAllSongs retrieves every song, oldest first.
func (r *mysqlSongRepository) GetAllSongs(ctx context.Context) ([]*model.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := make([]*model.Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song in GetAllSongs: %w", err)
		}
		songs = append(songs, song)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetAllSongs: %w", err)
	}

	return songs, nil
}

// GetSongByID retrieves a song by its id.
func (r *mysqlSongRepository) GetSongByID(ctx context.Context, id string) (*model.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	song, err := scanSong(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // song not found
		}
		return nil, fmt.Errorf("failed to scan song by ID %s: %w", id, err)
	}
	return song, nil
}

// UpdateSong persists the mutated record as a single save.
func (r *mysqlSongRepository) UpdateSong(ctx context.Context, song *model.Song) error {
	query := `UPDATE songs SET title = ?, artist = ?, album = ?, genre = ?,
	           file_asset_id = ?, file_url = ?, cover_asset_id = ?, cover_url = ?, updated_at = ?
	           WHERE id = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for UpdateSong: %w", err)
	}
	defer stmt.Close()

	song.UpdatedAt = time.Now()
	_, err = stmt.ExecContext(ctx, song.Title, song.Artist, song.Album, song.Genre,
		song.File.AssetID, song.File.URL,
		song.CoverImage.AssetID, song.CoverImage.URL,
		song.UpdatedAt, song.ID)
	if err != nil {
		return fmt.Errorf("failed to execute UpdateSong for song ID %s: %w", song.ID, err)
	}
	return nil
}

// DeleteSongByID atomically removes the song and returns the removed record,
// so the caller can clean up its remote assets. Returns (nil, nil) when no
// row matched.
func (r *mysqlSongRepository) DeleteSongByID(ctx context.Context, id string) (*model.Song, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for DeleteSongByID: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ? FOR UPDATE`
	row := tx.QueryRowContext(ctx, query, id)

	song, err := scanSong(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // song not found
		}
		return nil, fmt.Errorf("failed to scan song %s in DeleteSongByID: %w", id, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete song %s: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delete of song %s: %w", id, err)
	}

	return song, nil
}
