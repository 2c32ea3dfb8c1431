package store

import (
	"net/http"
	"testing"

	"songbox/model"
)

func song(id, title, album, genre string) *model.Song {
	return &model.Song{ID: id, Title: title, Artist: "X", Album: album, Genre: genre}
}

func TestPendingClearsErrorAndSetsSentinel(t *testing.T) {
	state := State{Err: "previous failure", Status: http.StatusInternalServerError}

	for _, action := range []Action{FetchPending{}, CreatePending{}, UpdatePending{}} {
		next := Reduce(state, action)
		if !next.Loading {
			t.Fatalf("%T: expected loading", action)
		}
		if next.Err != "" {
			t.Fatalf("%T: expected cleared error, got %q", action, next.Err)
		}
		if next.Status != StatusPending {
			t.Fatalf("%T: expected pending sentinel, got %d", action, next.Status)
		}
	}
}

func TestFetchFulfilledReplacesCatalog(t *testing.T) {
	state := State{
		Songs:   []*model.Song{song("1", "old", "A", "Rock")},
		Loading: true,
	}

	fetched := []*model.Song{song("2", "new", "B", "Jazz"), song("3", "newer", "C", "Pop")}
	next := Reduce(state, FetchFulfilled{Songs: fetched})

	if next.Loading {
		t.Fatalf("expected loading cleared")
	}
	if len(next.Songs) != 2 || next.Songs[0].ID != "2" {
		t.Fatalf("catalog not replaced wholesale: %+v", next.Songs)
	}
}

func TestCreateFulfilledAppends(t *testing.T) {
	original := []*model.Song{song("1", "first", "A", "Rock")}
	state := State{Songs: original, Loading: true}

	next := Reduce(state, CreateFulfilled{Song: song("2", "second", "B", "Jazz")})

	if next.Status != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", next.Status)
	}
	if len(next.Songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(next.Songs))
	}
	// The prior snapshot must stay intact.
	if len(original) != 1 {
		t.Fatalf("input snapshot mutated")
	}
}

func TestUpdateFulfilledOnlyCommitsOn201(t *testing.T) {
	state := State{Songs: []*model.Song{song("1", "old title", "A", "Rock")}}

	// A 200 response leaves the catalog stale.
	next := Reduce(state, UpdateFulfilled{Status: http.StatusOK, Song: song("1", "new title", "A", "Rock")})
	if next.Songs[0].Title != "old title" {
		t.Fatalf("non-201 update must not commit")
	}
	if next.Status != http.StatusOK {
		t.Fatalf("expected status recorded, got %d", next.Status)
	}

	// A 201 response commits the record.
	next = Reduce(state, UpdateFulfilled{Status: http.StatusCreated, Song: song("1", "new title", "A", "Rock")})
	if next.Songs[0].Title != "new title" {
		t.Fatalf("201 update must replace the matching record")
	}
}

func TestUpdateRejectedCoercesStatus(t *testing.T) {
	next := Reduce(State{Loading: true}, UpdateRejected{Err: "connection refused"})

	if next.Status != http.StatusInternalServerError {
		t.Fatalf("expected coerced 500, got %d", next.Status)
	}
	if next.Loading {
		t.Fatalf("expected loading cleared")
	}
}

func TestDeleteFulfilledClearsSelectionAndPlayback(t *testing.T) {
	selected := song("2", "selected", "B", "Jazz")
	state := State{
		Songs:    []*model.Song{song("1", "keep", "A", "Rock"), selected},
		Selected: selected,
		Playing:  true,
	}

	next := Reduce(state, DeleteFulfilled{ID: "2"})

	if len(next.Songs) != 1 || next.Songs[0].ID != "1" {
		t.Fatalf("deleted song not removed: %+v", next.Songs)
	}
	if next.Selected != nil {
		t.Fatalf("selection must be cleared")
	}
	if next.Playing {
		t.Fatalf("playback flag must be cleared")
	}
}

func TestSelectAndToggle(t *testing.T) {
	s := song("1", "track", "A", "Rock")

	next := Reduce(State{}, SelectSong{Song: s})
	if next.Selected != s {
		t.Fatalf("selection not applied")
	}

	next = Reduce(next, TogglePlayback{})
	if !next.Playing {
		t.Fatalf("expected playing after first toggle")
	}
	next = Reduce(next, TogglePlayback{})
	if next.Playing {
		t.Fatalf("expected paused after second toggle")
	}
}

func TestClearStatus(t *testing.T) {
	state := State{Status: http.StatusCreated, Loading: true, Err: "boom"}

	next := Reduce(state, ClearStatus{})
	if next.Status != StatusPending || next.Loading || next.Err != "" {
		t.Fatalf("clear status must reset the triple: %+v", next)
	}
}

func TestComputeStatistics(t *testing.T) {
	songs := []*model.Song{
		song("1", "a", "Album1", "Rock"),
		song("2", "b", "Album1", "Jazz"),
		song("3", "c", "Album2", "Jazz"),
		song("4", "d", "Album3", "Rock"),
	}

	stats := ComputeStatistics(songs)
	if stats.TotalSongs != 4 {
		t.Fatalf("expected 4 songs, got %d", stats.TotalSongs)
	}
	if stats.TotalGenres != 2 {
		t.Fatalf("expected 2 genres, got %d", stats.TotalGenres)
	}
	if stats.TotalAlbums != 3 {
		t.Fatalf("expected 3 albums, got %d", stats.TotalAlbums)
	}

	empty := ComputeStatistics(nil)
	if empty.TotalSongs != 0 || empty.TotalGenres != 0 || empty.TotalAlbums != 0 {
		t.Fatalf("expected zero statistics for empty catalog: %+v", empty)
	}
}

func TestStoreDispatch(t *testing.T) {
	s := NewStore()

	s.Dispatch(FetchPending{})
	state := s.Dispatch(FetchFulfilled{Songs: []*model.Song{song("1", "a", "A", "Rock")}})

	if state.Loading {
		t.Fatalf("expected loading cleared after fulfilled")
	}
	if len(s.State().Songs) != 1 {
		t.Fatalf("store did not retain dispatched state")
	}

	state = s.Dispatch(StatsFulfilled{Statistics: &model.Statistics{TotalSongs: 1, TotalGenres: 1, TotalAlbums: 1}})
	if state.Statistics == nil || state.Statistics.TotalSongs != 1 {
		t.Fatalf("statistics not stored")
	}
}
