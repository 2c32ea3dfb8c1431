// Package client is the data-fetch layer for the /music API: one method
// per endpoint, translating HTTP responses into typed payloads.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"songbox/model"
)

// Client talks to one Songbox server.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

// SongFields carries the multipart text fields and optional file
// attachments for create and update calls. Empty strings are omitted.
type SongFields struct {
	Title  string
	Artist string
	Album  string
	Genre  string

	AudioPath string // local path to a .mp3/.mp4 file
	CoverPath string // local path to a .jpg/.jpeg/.png file
}

// UpdateResult is what UpdateSong hands back: the server status plus the
// updated record when the server sent one.
type UpdateResult struct {
	Status int
	Song   *model.Song
}

type createResponse struct {
	Message string      `json:"message"`
	Song    *model.Song `json:"song"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// FetchSongs returns the whole catalog.
func (c *Client) FetchSongs(ctx context.Context) ([]*model.Song, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/music/", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching music: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error fetching music: %s", readMessage(resp.Body))
	}

	var songs []*model.Song
	if err := json.NewDecoder(resp.Body).Decode(&songs); err != nil {
		return nil, fmt.Errorf("error decoding song list: %w", err)
	}
	return songs, nil
}

// AddSong uploads a new song and returns the created record.
func (c *Client) AddSong(ctx context.Context, fields SongFields) (*model.Song, error) {
	body, contentType, err := buildMultipart(fields)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/music/", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error adding music: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("error adding music: %s", readMessage(resp.Body))
	}

	var created createResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("error decoding create response: %w", err)
	}
	return created.Song, nil
}

// UpdateSong applies a partial update. Unlike the other methods it returns
// server-error responses as an UpdateResult rather than an error; only
// transport failures surface as errors. Callers inspect Status.
func (c *Client) UpdateSong(ctx context.Context, id string, fields SongFields) (*UpdateResult, error) {
	body, contentType, err := buildMultipart(fields)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/music/"+id, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error updating music: %w", err)
	}
	defer resp.Body.Close()

	result := &UpdateResult{Status: resp.StatusCode}
	if resp.StatusCode == http.StatusCreated {
		var song model.Song
		if err := json.NewDecoder(resp.Body).Decode(&song); err != nil {
			return nil, fmt.Errorf("error decoding updated song: %w", err)
		}
		result.Song = &song
	}
	return result, nil
}

// DeleteSong removes a song by id and returns the response status.
func (c *Client) DeleteSong(ctx context.Context, id string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/music/"+id, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error deleting music: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("error deleting music: %s", readMessage(resp.Body))
	}
	return resp.StatusCode, nil
}

func readMessage(r io.Reader) string {
	var msg messageResponse
	if err := json.NewDecoder(r).Decode(&msg); err == nil && msg.Message != "" {
		return msg.Message
	}
	return "request failed"
}

func buildMultipart(fields SongFields) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	textFields := map[string]string{
		"title":  fields.Title,
		"artist": fields.Artist,
		"album":  fields.Album,
		"genre":  fields.Genre,
	}
	for name, value := range textFields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	fileFields := []struct {
		field string
		path  string
	}{
		{"file", fields.AudioPath},
		{"coverImage", fields.CoverPath},
	}
	for _, f := range fileFields {
		if f.path == "" {
			continue
		}
		if err := attachFile(writer, f.field, f.path); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func attachFile(writer *multipart.Writer, field, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}
