// Package store holds the client-side catalog state: the song list,
// selection and playback flags, the last request's status, and derived
// statistics. State changes only through Dispatch with one of the defined
// actions; the reducer itself is a pure function over a snapshot.
package store

import (
	"net/http"
	"sync"

	"songbox/model"
)

// StatusPending marks an in-flight request in the Status field. The value
// doubles as "no request yet" right after construction; callers that need
// to distinguish the two track their own dispatch history.
const StatusPending = 0

// State is an immutable snapshot of the client catalog.
type State struct {
	Songs      []*model.Song
	Err        string
	Status     int
	Loading    bool
	Selected   *model.Song
	Playing    bool
	Statistics *model.Statistics
}

// Action is one state transition. The variants form a tagged union; each
// async operation has explicit Pending/Fulfilled/Rejected actions.
type Action interface{ isAction() }

type (
	// FetchPending starts a catalog fetch.
	FetchPending struct{}
	// FetchFulfilled replaces the catalog wholesale.
	FetchFulfilled struct{ Songs []*model.Song }
	// FetchRejected records the fetch failure message.
	FetchRejected struct{ Err string }

	// CreatePending starts a song upload.
	CreatePending struct{}
	// CreateFulfilled appends the created record.
	CreateFulfilled struct{ Song *model.Song }
	// CreateRejected records the upload failure message.
	CreateRejected struct{ Err string }

	// UpdatePending starts a song update.
	UpdatePending struct{}
	// UpdateFulfilled carries the server status and the updated record.
	UpdateFulfilled struct {
		Status int
		Song   *model.Song
	}
	// UpdateRejected marks an update transport failure.
	UpdateRejected struct{ Err string }

	// DeletePending starts a song deletion.
	DeletePending struct{}
	// DeleteFulfilled removes the record by id.
	DeleteFulfilled struct{ ID string }
	// DeleteRejected records the delete failure message.
	DeleteRejected struct{ Err string }

	// StatsPending starts a statistics refresh.
	StatsPending struct{}
	// StatsFulfilled stores the computed statistics.
	StatsFulfilled struct{ Statistics *model.Statistics }
	// StatsRejected records the statistics failure message.
	StatsRejected struct{ Err string }

	// SelectSong replaces the current selection.
	SelectSong struct{ Song *model.Song }
	// TogglePlayback flips the playing flag.
	TogglePlayback struct{}
	// ClearStatus resets status, loading and error.
	ClearStatus struct{}
)

func (FetchPending) isAction()    {}
func (FetchFulfilled) isAction()  {}
func (FetchRejected) isAction()   {}
func (CreatePending) isAction()   {}
func (CreateFulfilled) isAction() {}
func (CreateRejected) isAction()  {}
func (UpdatePending) isAction()   {}
func (UpdateFulfilled) isAction() {}
func (UpdateRejected) isAction()  {}
func (DeletePending) isAction()   {}
func (DeleteFulfilled) isAction() {}
func (DeleteRejected) isAction()  {}
func (StatsPending) isAction()    {}
func (StatsFulfilled) isAction()  {}
func (StatsRejected) isAction()   {}
func (SelectSong) isAction()      {}
func (TogglePlayback) isAction()  {}
func (ClearStatus) isAction()     {}

// Reduce applies one action to a snapshot and returns the next snapshot.
// The input state is never mutated; the songs slice is copied before any
// element-level change.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case FetchPending, CreatePending, UpdatePending:
		state.Loading = true
		state.Err = ""
		state.Status = StatusPending

	case FetchFulfilled:
		state.Loading = false
		state.Songs = a.Songs
		state.Err = ""

	case FetchRejected:
		state.Loading = false
		state.Err = orDefault(a.Err)

	case CreateFulfilled:
		state.Loading = false
		state.Songs = append(copySongs(state.Songs), a.Song)
		state.Status = http.StatusCreated
		state.Err = ""

	case CreateRejected:
		state.Loading = false
		state.Err = orDefault(a.Err)

	case UpdateFulfilled:
		state.Status = a.Status
		// Only a 201 commits the updated record; any other status leaves
		// the catalog stale. Documented open question, kept as-is.
		if a.Status == http.StatusCreated && a.Song != nil {
			songs := copySongs(state.Songs)
			for i, song := range songs {
				if song.ID == a.Song.ID {
					songs[i] = a.Song
					break
				}
			}
			state.Songs = songs
		}
		state.Loading = false

	case UpdateRejected:
		// The real failure is discarded; clients only see a generic
		// server-error status.
		state.Status = http.StatusInternalServerError
		state.Loading = false

	case DeletePending:
		state.Loading = true

	case DeleteFulfilled:
		songs := make([]*model.Song, 0, len(state.Songs))
		for _, song := range state.Songs {
			if song.ID != a.ID {
				songs = append(songs, song)
			}
		}
		state.Songs = songs
		state.Selected = nil
		state.Playing = false
		state.Loading = false

	case DeleteRejected:
		state.Loading = false
		state.Err = orDefault(a.Err)

	case StatsPending:
		state.Loading = true

	case StatsFulfilled:
		state.Loading = false
		state.Statistics = a.Statistics

	case StatsRejected:
		state.Loading = false
		state.Err = orDefault(a.Err)

	case SelectSong:
		state.Selected = a.Song

	case TogglePlayback:
		state.Playing = !state.Playing

	case ClearStatus:
		state.Status = StatusPending
		state.Loading = false
		state.Err = ""
	}

	return state
}

// ComputeStatistics derives the aggregate view from the song collection:
// total count plus distinct genre and album counts.
func ComputeStatistics(songs []*model.Song) model.Statistics {
	genres := make(map[string]struct{})
	albums := make(map[string]struct{})
	for _, song := range songs {
		genres[song.Genre] = struct{}{}
		albums[song.Album] = struct{}{}
	}
	return model.Statistics{
		TotalSongs:  len(songs),
		TotalGenres: len(genres),
		TotalAlbums: len(albums),
	}
}

// Store wraps the reducer with a current snapshot. It is an explicit
// context object handed to whoever renders the catalog, not a package-wide
// singleton.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates a store with an empty catalog.
func NewStore() *Store {
	return &Store{state: State{Songs: make([]*model.Song, 0)}}
}

// Dispatch applies the action and returns the resulting snapshot.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	return s.state
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func copySongs(songs []*model.Song) []*model.Song {
	out := make([]*model.Song, len(songs))
	copy(out, songs)
	return out
}

func orDefault(msg string) string {
	if msg == "" {
		return "An error occurred"
	}
	return msg
}
