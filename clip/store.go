package clip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/util"
)

type MemoryStore struct {
	mu    sync.RWMutex
	clips map[string]model.Clip
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clips: make(map[string]model.Clip)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clips[id]
	if !ok {
		return model.Clip{}, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return copyClip(c), nil
}

func (s *MemoryStore) Put(_ context.Context, c model.Clip) (model.Clip, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c = copyClip(c)
	s.mu.Lock()
	s.clips[c.ID] = c
	s.mu.Unlock()
	return copyClip(c), nil
}

func (s *MemoryStore) List(_ context.Context) ([]model.Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Clip, 0, len(s.clips))
	for _, id := range util.GetKeys(s.clips) {
		res = append(res, copyClip(s.clips[id]))
	}
	return res, nil
}

func copyClip(c model.Clip) model.Clip {
	c.Notes = append([]model.NoteEvent(nil), c.Notes...)
	c.Progression = append([]model.ProgressionEntry(nil), c.Progression...)
	return c
}

const clipExt = ".clip"

var clipFilename = regexp.MustCompile(`^[0-9a-zA-Z_-]+\.clip$`)

// FileStore keeps one gob encoded file per clip in Dir.
type FileStore struct {
	Dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create clip dir %v: %w", dir, err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(id string) (string, error) {
	filename := id + clipExt
	if !clipFilename.MatchString(filename) {
		return "", fmt.Errorf("invalid clip id %q", id)
	}
	return filepath.Join(s.Dir, filename), nil
}

func (s *FileStore) Get(_ context.Context, id string) (model.Clip, error) {
	path, err := s.path(id)
	if err != nil {
		return model.Clip{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := util.ReadBinary[model.Clip](path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Clip{}, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return c, err
}

func (s *FileStore) Put(_ context.Context, c model.Clip) (model.Clip, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	path, err := s.path(c.ID)
	if err != nil {
		return model.Clip{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := util.WriteBinary(path, c); err != nil {
		return model.Clip{}, err
	}
	return c, nil
}

func (s *FileStore) List(ctx context.Context) ([]model.Clip, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("could not read clip dir %v: %w", s.Dir, err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() && clipFilename.MatchString(e.Name()) {
			ids = append(ids, strings.TrimSuffix(e.Name(), clipExt))
		}
	}
	sort.Strings(ids)

	res := make([]model.Clip, 0, len(ids))
	for _, id := range ids {
		c, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}
