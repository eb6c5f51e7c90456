package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roberta/studio/internal/storage"
)

const (
	defaultIOTimeout     = 10 * time.Second
	defaultUploadTimeout = 2 * time.Minute
)

// AlbumInput holds the fields accepted when creating an album.
type AlbumInput struct {
	Title      string
	ClientName string
	EventDate  string
	Tags       []string
}

// PhotoUpload is one incoming photo. Size may be -1 when unknown; an empty
// ContentType is inferred from Filename.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Description string
}

// Service contains the album and photo workflows. It coordinates the document
// store and the object store; neither write is transactional with the other.
type Service struct {
	repo   Repository
	store  storage.Storage
	mapper *Mapper
	log    *zap.Logger

	ioTimeout     time.Duration
	uploadTimeout time.Duration
	presignTTL    time.Duration
	now           func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithIOTimeout bounds every document-store call and URL signing.
func WithIOTimeout(d time.Duration) Option { return func(s *Service) { s.ioTimeout = d } }

// WithUploadTimeout bounds the object-store upload of a single photo.
func WithUploadTimeout(d time.Duration) Option { return func(s *Service) { s.uploadTimeout = d } }

// WithPresignTTL sets how long returned photo URLs stay valid.
func WithPresignTTL(d time.Duration) Option { return func(s *Service) { s.presignTTL = d } }

// WithClock replaces the clock used for upload timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates a new media Service.
func NewService(repo Repository, store storage.Storage, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		store:         store,
		log:           log,
		ioTimeout:     defaultIOTimeout,
		uploadTimeout: defaultUploadTimeout,
		presignTTL:    storage.DefaultPresignTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mapper = NewMapper(store, s.presignTTL)
	return s
}

func (s *Service) bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// RegisterClient creates a client unless the email is already registered.
// The store's unique constraint backs up the pre-check for concurrent requests.
func (s *Service) RegisterClient(ctx context.Context, name, email string) (*ClientView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email %q is not a valid address", ErrValidation, email)
	}

	ctx, cancel := s.bounded(ctx, s.ioTimeout)
	defer cancel()

	_, err = s.repo.FindClientByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("check client email: %w", err)
	}

	c := &Client{Name: name, Email: email}
	if err := s.repo.InsertClient(ctx, c); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register client: %w", err)
	}
	s.log.Info("client registered", zap.String("client_id", c.ID))

	v := s.mapper.Client(*c)
	return &v, nil
}

// ListClients returns every client.
func (s *Service) ListClients(ctx context.Context) ([]ClientView, error) {
	ctx, cancel := s.bounded(ctx, s.ioTimeout)
	defer cancel()

	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ClientView, 0, len(clients))
	for _, c := range clients {
		out = append(out, s.mapper.Client(c))
	}
	return out, nil
}

// CreateAlbum creates an album for the client named in.ClientName.
func (s *Service) CreateAlbum(ctx context.Context, in AlbumInput) (*AlbumView, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.ClientName == "" {
		return nil, fmt.Errorf("%w: client_name is required", ErrValidation)
	}

	ctx, cancel := s.bounded(ctx, s.ioTimeout)
	defer cancel()

	client, err := s.repo.FindClientByName(ctx, in.ClientName)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: '%s'. Create the client first", ErrClientNotFound, in.ClientName)
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	a := &Album{
		Title:      in.Title,
		ClientID:   client.ID,
		ClientName: client.Name,
		EventDate:  in.EventDate,
		Tags:       tags,
	}
	if err := s.repo.InsertAlbum(ctx, a); err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}
	s.log.Info("album created", zap.String("album_id", a.ID), zap.String("client_id", client.ID))

	v := s.mapper.Album(*a)
	return &v, nil
}

// ListAlbums returns every album.
func (s *Service) ListAlbums(ctx context.Context) ([]AlbumView, error) {
	return s.listAlbums(ctx, AlbumFilter{})
}

// ListAlbumsByTag returns the albums whose tags contain tag.
func (s *Service) ListAlbumsByTag(ctx context.Context, tag string) ([]AlbumView, error) {
	if tag == "" {
		return nil, fmt.Errorf("%w: tag is required", ErrValidation)
	}
	return s.listAlbums(ctx, AlbumFilter{Tag: tag})
}

// ListAlbumsByClient returns the albums stored under clientName.
func (s *Service) ListAlbumsByClient(ctx context.Context, clientName string) ([]AlbumView, error) {
	if clientName == "" {
		return nil, fmt.Errorf("%w: client_name is required", ErrValidation)
	}
	return s.listAlbums(ctx, AlbumFilter{ClientName: clientName})
}

func (s *Service) listAlbums(ctx context.Context, f AlbumFilter) ([]AlbumView, error) {
	ctx, cancel := s.bounded(ctx, s.ioTimeout)
	defer cancel()

	albums, err := s.repo.ListAlbums(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]AlbumView, 0, len(albums))
	for _, a := range albums {
		out = append(out, s.mapper.Album(a))
	}
	return out, nil
}

// resolveAlbum validates albumID and loads the album.
func (s *Service) resolveAlbum(ctx context.Context, albumID string) (*Album, error) {
	if !s.repo.ValidID(albumID) {
		return nil, ErrInvalidID
	}

	ctx, cancel := s.bounded(ctx, s.ioTimeout)
	defer cancel()

	album, err := s.repo.FindAlbum(ctx, albumID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find album: %w", err)
	}
	return album, nil
}

// UploadPhoto stores the photo content and then records its metadata. The
// object write always completes before the insert; if the insert fails the
// object is deleted again on a best-effort basis, unless its key is already
// recorded by another photo. A signing failure after the insert yields a view
// with an empty URL.
func (s *Service) UploadPhoto(ctx context.Context, albumID string, up PhotoUpload) (*PhotoView, error) {
	album, err := s.resolveAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	uploadedAt := s.now().UTC()
	key := StorageKey(album.ID, up.Filename, uploadedAt)
	contentType := up.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeFor(cleanFilename(up.Filename))
	}

	if err := s.upload(ctx, key, up, contentType); err != nil {
		s.log.Error("photo upload failed", zap.String("album_id", album.ID), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	p := &Photo{
		AlbumID:    album.ID,
		StorageKey: key,
		UploadedAt: uploadedAt,
	}
	if up.Description != "" {
		desc := up.Description
		p.Description = &desc
	}

	if err := s.insertPhoto(ctx, p); err != nil {
		// A taken key means another record already points at this object.
		if !errors.Is(err, ErrKeyTaken) {
			s.compensate(ctx, key)
		}
		return nil, fmt.Errorf("record photo: %w", err)
	}
	s.log.Info("photo uploaded", zap.String("album_id", album.ID), zap.String("photo_id", p.ID), zap.Int64("size", up.Size))

	ctx, cancel := s.bounded(ctx, s.ioTimeout)
	defer cancel()
	v, err := s.mapper.Photo(ctx, *p)
	if err != nil {
		// The photo is already recorded; answer with it and no URL.
		s.log.Error("sign url after upload failed", zap.String("photo_id", p.ID), zap.Error(err))
		v = photoView(*p, "")
	}
	return &v, nil
}

func (s *Service) upload(ctx context.Context, key string, up PhotoUpload, contentType string) error {
	ctx, cancel := s.bounded(ctx, s.uploadTimeout)
	defer cancel()
	return s.store.Upload(ctx, key, up.Body, up.Size, contentType)
}

func (s *Service) insertPhoto(ctx context.Context, p *Photo) error {
	ctx, cancel := s.bounded(ctx, s.ioTimeout)
	defer cancel()
	return s.repo.InsertPhoto(ctx, p)
}

// compensate removes an object whose metadata insert failed. It runs detached
// from request cancellation so a client disconnect does not leave the orphan.
func (s *Service) compensate(ctx context.Context, key string) {
	ctx, cancel := s.bounded(context.WithoutCancel(ctx), s.ioTimeout)
	defer cancel()
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Error("orphaned object left in storage", zap.String("key", key), zap.Error(err))
		return
	}
	s.log.Warn("removed object after failed metadata insert", zap.String("key", key))
}

// ListPhotos returns every photo of the album, each with a freshly signed URL.
func (s *Service) ListPhotos(ctx context.Context, albumID string) ([]PhotoView, error) {
	album, err := s.resolveAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.bounded(ctx, s.ioTimeout)
	defer cancel()

	photos, err := s.repo.ListPhotos(ctx, album.ID)
	if err != nil {
		return nil, err
	}
	out := make([]PhotoView, 0, len(photos))
	for _, p := range photos {
		v, err := s.mapper.Photo(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
