package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"songbox/model"
)

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("payload"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestFetchSongs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/music/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]*model.Song{{ID: "1", Title: "a"}})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	songs, err := c.FetchSongs(context.Background())
	if err != nil {
		t.Fatalf("FetchSongs error: %v", err)
	}
	if len(songs) != 1 || songs[0].ID != "1" {
		t.Fatalf("unexpected songs: %+v", songs)
	}
}

func TestFetchSongsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if _, err := c.FetchSongs(context.Background()); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestAddSongSendsMultipart(t *testing.T) {
	var gotTitle, gotAudioName, gotCoverName string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		gotTitle = r.FormValue("title")
		if _, fh, err := r.FormFile("file"); err == nil {
			gotAudioName = fh.Filename
		}
		if _, fh, err := r.FormFile("coverImage"); err == nil {
			gotCoverName = fh.Filename
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Song Uploaded Successfully",
			"song":    &model.Song{ID: "1", Title: gotTitle},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	song, err := c.AddSong(context.Background(), SongFields{
		Title:     "Song A",
		Artist:    "X",
		Album:     "Y",
		Genre:     "Z",
		AudioPath: writeTempFile(t, "track.mp3"),
		CoverPath: writeTempFile(t, "cover.jpg"),
	})
	if err != nil {
		t.Fatalf("AddSong error: %v", err)
	}

	if song == nil || song.ID != "1" {
		t.Fatalf("unexpected song: %+v", song)
	}
	if gotTitle != "Song A" || gotAudioName != "track.mp3" || gotCoverName != "cover.jpg" {
		t.Fatalf("multipart fields not transmitted: %q %q %q", gotTitle, gotAudioName, gotCoverName)
	}
}

func TestUpdateSongReturnsErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "Error updating the song"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	// Server-side failures come back as a result, not an error.
	result, err := c.UpdateSong(context.Background(), "some-id", SongFields{Genre: "Jazz"})
	if err != nil {
		t.Fatalf("UpdateSong must not error on server failure, got %v", err)
	}
	if result.Status != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", result.Status)
	}
	if result.Song != nil {
		t.Fatalf("no song expected on failure")
	}
}

func TestUpdateSongSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/music/some-id" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(&model.Song{ID: "some-id", Genre: "Jazz"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	result, err := c.UpdateSong(context.Background(), "some-id", SongFields{Genre: "Jazz"})
	if err != nil {
		t.Fatalf("UpdateSong error: %v", err)
	}
	if result.Status != http.StatusCreated || result.Song == nil || result.Song.Genre != "Jazz" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestDeleteSong(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method: %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	status, err := c.DeleteSong(context.Background(), "some-id")
	if err != nil {
		t.Fatalf("DeleteSong error: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
}

func TestDeleteSongNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Song not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	status, err := c.DeleteSong(context.Background(), "gone")
	if err == nil {
		t.Fatalf("expected error on 404")
	}
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 status, got %d", status)
	}
}
