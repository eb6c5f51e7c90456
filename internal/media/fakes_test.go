package media

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memRepo is an in-memory Repository with UUID identifiers.
type memRepo struct {
	mu      sync.Mutex
	clients []Client
	albums  []Album
	photos  []Photo
	calls   int

	insertPhotoErr error
}

func newMemRepo() *memRepo { return &memRepo{} }

func (m *memRepo) ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func (m *memRepo) touch() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *memRepo) InsertClient(ctx context.Context, c *Client) error {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.clients {
		if existing.Email == c.Email {
			return ErrEmailTaken
		}
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	m.clients = append(m.clients, *c)
	return nil
}

func (m *memRepo) FindClientByEmail(ctx context.Context, email string) (*Client, error) {
	return m.findClient(func(c Client) bool { return c.Email == email })
}

func (m *memRepo) FindClientByName(ctx context.Context, name string) (*Client, error) {
	return m.findClient(func(c Client) bool { return c.Name == name })
}

func (m *memRepo) findClient(match func(Client) bool) (*Client, error) {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if match(c) {
			c := c
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) ListClients(ctx context.Context) ([]Client, error) {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.clients), nil
}

func (m *memRepo) InsertAlbum(ctx context.Context, a *Album) error {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	m.albums = append(m.albums, *a)
	return nil
}

func (m *memRepo) FindAlbum(ctx context.Context, id string) (*Album, error) {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.albums {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) ListAlbums(ctx context.Context, f AlbumFilter) ([]Album, error) {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Album
	for _, a := range m.albums {
		if f.Tag != "" && !slices.Contains(a.Tags, f.Tag) {
			continue
		}
		if f.ClientName != "" && a.ClientName != f.ClientName {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memRepo) InsertPhoto(ctx context.Context, p *Photo) error {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertPhotoErr != nil {
		return m.insertPhotoErr
	}
	p.ID = uuid.NewString()
	m.photos = append(m.photos, *p)
	return nil
}

func (m *memRepo) ListPhotos(ctx context.Context, albumID string) ([]Photo, error) {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Photo
	for _, p := range m.photos {
		if p.AlbumID == albumID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// memStorage is an in-memory storage.Storage. Each presigned URL carries a
// sequence number so repeated signing yields distinct URLs.
type memStorage struct {
	mu          sync.Mutex
	objects     map[string][]byte
	types       map[string]string
	uploadErr   error
	deleteErr   error
	presignErr  error
	signed      int
	lastTTL     time.Duration
	uploadCalls int
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	s.uploadCalls++
	s.mu.Unlock()
	if s.uploadErr != nil {
		return s.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	s.types[key] = contentType
	return nil
}

func (s *memStorage) Delete(ctx context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signed++
	s.lastTTL = ttl
	return fmt.Sprintf("https://storage.test/%s?X-Amz-Expires=%d&sig=%d", key, int(ttl.Seconds()), s.signed), nil
}

func (s *memStorage) objectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
