package uploader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
)

var (
	ErrNoImages       = errors.New("at least one image is required")
	ErrPendingUploads = errors.New("uploads still in progress")
	ErrFailedUploads  = errors.New("some uploads failed")
	ErrUnknownFile    = errors.New("unknown file index")
)

type State int

const (
	StatePending State = iota
	StateUploading
	StateSucceeded
	StateFailed
)

// Status is the upload state of one selected file. URL is set only in
// StateSucceeded, Message only in StateFailed.
type Status struct {
	State   State
	URL     string
	Message string
}

// File is a selected image awaiting or past upload.
type File struct {
	Index   int
	Name    string
	Data    []byte
	IsCover bool
	Status  Status
}

// Uploader sends one file to the server and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// Tracker mirrors the image picker of the room form: it tracks selection
// order, per-file upload state and the single cover designation. Safe for
// concurrent use; uploads complete in any order.
type Tracker struct {
	mu       sync.Mutex
	uploader Uploader
	files    map[int]*File
	next     int
}

func NewTracker(uploader Uploader) *Tracker {
	return &Tracker{
		uploader: uploader,
		files:    make(map[int]*File),
	}
}

// AddFiles registers newly selected files. The very first file ever added
// becomes the cover; later additions never steal it.
func (t *Tracker) AddFiles(names []string, payloads [][]byte) []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	indices := make([]int, 0, len(names))
	for i, name := range names {
		f := &File{
			Index:   t.next,
			Name:    name,
			IsCover: len(t.files) == 0,
			Status:  Status{State: StatePending},
		}
		if i < len(payloads) {
			f.Data = payloads[i]
		}
		t.files[t.next] = f
		indices = append(indices, t.next)
		t.next++
	}

	return indices
}

// BeginUpload starts the upload for one pending file and blocks until it
// finishes. Concurrent calls for different indices are fine.
func (t *Tracker) BeginUpload(ctx context.Context, index int) error {
	t.mu.Lock()
	f, ok := t.files[index]
	if !ok {
		t.mu.Unlock()
		return ErrUnknownFile
	}
	if f.Status.State != StatePending {
		t.mu.Unlock()
		return fmt.Errorf("file %d is not pending", index)
	}
	f.Status = Status{State: StateUploading}
	name, data := f.Name, f.Data
	t.mu.Unlock()

	fileURL, err := t.uploader.Upload(ctx, name, data)

	t.mu.Lock()
	defer t.mu.Unlock()

	// The file may have been removed while the request was in flight. The
	// resolved URL is discarded; the stored object stays orphaned.
	f, ok = t.files[index]
	if !ok {
		return nil
	}

	if err != nil {
		f.Status = Status{State: StateFailed, Message: err.Error()}
		return err
	}

	f.Status = Status{State: StateSucceeded, URL: fileURL}
	return nil
}

// Remove drops a file from the selection. When the cover is removed the
// designation moves to the lowest surviving index. An already-uploaded
// object is not deleted server-side; it stays orphaned in the store.
func (t *Tracker) Remove(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.files[index]
	if !ok {
		return ErrUnknownFile
	}

	wasCover := f.IsCover
	delete(t.files, index)

	if wasCover {
		if lowest := t.lowestIndexLocked(); lowest >= 0 {
			t.files[lowest].IsCover = true
		}
	}

	return nil
}

// SetCover moves the cover designation. Only successfully uploaded files
// can be designated, matching what the form will submit.
func (t *Tracker) SetCover(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.files[index]
	if !ok {
		return ErrUnknownFile
	}
	if f.Status.State != StateSucceeded {
		return fmt.Errorf("file %d has not finished uploading", index)
	}

	for _, other := range t.files {
		other.IsCover = false
	}
	f.IsCover = true

	return nil
}

// ValidateForSubmit checks that the selection can back a room submission.
// A selection where no upload reached success is treated the same as an
// empty one, regardless of how the candidates got stuck.
func (t *Tracker) ValidateForSubmit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	succeeded := 0
	for _, f := range t.files {
		if f.Status.State == StateSucceeded {
			succeeded++
		}
	}
	if succeeded == 0 {
		return ErrNoImages
	}

	for _, f := range t.files {
		switch f.Status.State {
		case StatePending, StateUploading:
			return ErrPendingUploads
		case StateFailed:
			return ErrFailedUploads
		}
	}

	return nil
}

// FormValues renders the selection as the multipart fields the room
// creation endpoint expects: repeated imageUrls in selection order plus a
// cover_<position> flag.
func (t *Tracker) FormValues() (url.Values, error) {
	if err := t.ValidateForSubmit(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ordered := t.orderedLocked()
	values := url.Values{}
	for pos, f := range ordered {
		values.Add("imageUrls", f.Status.URL)
		if f.IsCover {
			values.Set(fmt.Sprintf("cover_%d", pos), "true")
		}
	}

	return values, nil
}

// Files returns a snapshot in selection order.
func (t *Tracker) Files() []File {
	t.mu.Lock()
	defer t.mu.Unlock()

	ordered := t.orderedLocked()
	out := make([]File, 0, len(ordered))
	for _, f := range ordered {
		out = append(out, *f)
	}

	return out
}

func (t *Tracker) orderedLocked() []*File {
	ordered := make([]*File, 0, len(t.files))
	for _, f := range t.files {
		ordered = append(ordered, f)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	return ordered
}

func (t *Tracker) lowestIndexLocked() int {
	lowest := -1
	for idx := range t.files {
		if lowest == -1 || idx < lowest {
			lowest = idx
		}
	}

	return lowest
}
