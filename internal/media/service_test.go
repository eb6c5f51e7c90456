package media

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *memRepo, *memStorage) {
	t.Helper()
	repo := newMemRepo()
	store := newMemStorage()
	return NewService(repo, store, zap.NewNop(), opts...), repo, store
}

func mustClient(t *testing.T, s *Service, name, email string) *ClientView {
	t.Helper()
	c, err := s.RegisterClient(context.Background(), name, email)
	if err != nil {
		t.Fatalf("RegisterClient(%q, %q): %v", name, email, err)
	}
	return c
}

func mustAlbum(t *testing.T, s *Service, in AlbumInput) *AlbumView {
	t.Helper()
	a, err := s.CreateAlbum(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateAlbum(%+v): %v", in, err)
	}
	return a
}

func TestRegisterClientRejectsDuplicateEmail(t *testing.T) {
	s, repo, _ := newTestService(t)
	mustClient(t, s, "Ana", "ana@x.com")

	_, err := s.RegisterClient(context.Background(), "Ana Two", "ana@x.com")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("got %v; want ErrEmailTaken", err)
	}
	if len(repo.clients) != 1 {
		t.Fatalf("client count=%d; want 1", len(repo.clients))
	}

	// Emails compare case-sensitively.
	if _, err := s.RegisterClient(context.Background(), "Ana", "ANA@x.com"); err != nil {
		t.Fatalf("different-case email rejected: %v", err)
	}
}

func TestRegisterClientValidation(t *testing.T) {
	s, repo, _ := newTestService(t)
	cases := []struct{ name, email string }{
		{"", "ana@x.com"},
		{"   ", "ana@x.com"},
		{"Ana", "not-an-email"},
		{"Ana", "Ana <ana@x.com>"},
		{"Ana", ""},
	}
	for _, tc := range cases {
		if _, err := s.RegisterClient(context.Background(), tc.name, tc.email); !errors.Is(err, ErrValidation) {
			t.Fatalf("RegisterClient(%q, %q)=%v; want ErrValidation", tc.name, tc.email, err)
		}
	}
	if repo.callCount() != 0 {
		t.Fatalf("repository called %d times for invalid input", repo.callCount())
	}
}

// A registration that loses the race after the pre-check still surfaces as a conflict.
type racingRepo struct {
	*memRepo
}

func (r racingRepo) FindClientByEmail(ctx context.Context, email string) (*Client, error) {
	return nil, ErrNotFound
}

func TestRegisterClientStoreConstraintWins(t *testing.T) {
	repo := racingRepo{newMemRepo()}
	s := NewService(repo, newMemStorage(), zap.NewNop())

	mustClient(t, s, "Ana", "ana@x.com")
	if _, err := s.RegisterClient(context.Background(), "Ana", "ana@x.com"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("got %v; want ErrEmailTaken", err)
	}
}

func TestCreateAlbumRequiresExistingClient(t *testing.T) {
	s, repo, _ := newTestService(t)

	_, err := s.CreateAlbum(context.Background(), AlbumInput{Title: "Wedding", ClientName: "Nobody", EventDate: "2024-05-01"})
	if !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("got %v; want ErrClientNotFound", err)
	}
	if !strings.Contains(err.Error(), "Nobody") {
		t.Fatalf("error %q does not name the client", err)
	}
	if len(repo.albums) != 0 {
		t.Fatalf("album persisted despite missing client")
	}
}

func TestCreateAlbumForExistingClient(t *testing.T) {
	s, repo, _ := newTestService(t)
	c := mustClient(t, s, "Ana", "ana@x.com")

	a := mustAlbum(t, s, AlbumInput{Title: "Wedding", ClientName: "Ana", EventDate: "sometime in May"})
	if a.ClientName != "Ana" || a.Title != "Wedding" || a.EventDate != "sometime in May" {
		t.Fatalf("unexpected album %+v", a)
	}
	if a.Tags == nil || len(a.Tags) != 0 {
		t.Fatalf("tags=%v; want empty non-nil", a.Tags)
	}
	if repo.albums[0].ClientID != c.ID {
		t.Fatalf("stored client id %q; want %q", repo.albums[0].ClientID, c.ID)
	}

	if _, err := s.CreateAlbum(context.Background(), AlbumInput{ClientName: "Ana"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing title: got %v; want ErrValidation", err)
	}
}

func TestListAlbumsFilters(t *testing.T) {
	s, _, _ := newTestService(t)
	mustClient(t, s, "Ana", "ana@x.com")
	mustClient(t, s, "Bia", "bia@x.com")
	wedding := mustAlbum(t, s, AlbumInput{Title: "Wedding", ClientName: "Ana", Tags: []string{"wedding", "outdoor"}})
	studio := mustAlbum(t, s, AlbumInput{Title: "Portraits", ClientName: "Bia", Tags: []string{"studio"}})
	beach := mustAlbum(t, s, AlbumInput{Title: "Beach", ClientName: "Bia", Tags: []string{"outdoor"}})

	ids := func(views []AlbumView) []string {
		out := make([]string, 0, len(views))
		for _, v := range views {
			out = append(out, v.ID)
		}
		return out
	}
	same := func(got, want []string) bool {
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}

	all, err := s.ListAlbums(context.Background())
	if err != nil || len(all) != 3 {
		t.Fatalf("ListAlbums: %d albums, err %v", len(all), err)
	}

	byTag, err := s.ListAlbumsByTag(context.Background(), "outdoor")
	if err != nil {
		t.Fatalf("ListAlbumsByTag: %v", err)
	}
	if got := ids(byTag); !same(got, []string{wedding.ID, beach.ID}) {
		t.Fatalf("by tag outdoor=%v", got)
	}

	none, err := s.ListAlbumsByTag(context.Background(), "outdo")
	if err != nil || len(none) != 0 {
		t.Fatalf("partial tag matched %d albums (err %v)", len(none), err)
	}

	byClient, err := s.ListAlbumsByClient(context.Background(), "Bia")
	if err != nil {
		t.Fatalf("ListAlbumsByClient: %v", err)
	}
	if got := ids(byClient); !same(got, []string{studio.ID, beach.ID}) {
		t.Fatalf("by client Bia=%v", got)
	}

	if _, err := s.ListAlbumsByTag(context.Background(), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty tag: got %v; want ErrValidation", err)
	}
}

func TestUploadPhotoMalformedAlbumID(t *testing.T) {
	s, repo, store := newTestService(t)

	_, err := s.UploadPhoto(context.Background(), "not-an-id", PhotoUpload{Filename: "x.jpg", Body: strings.NewReader("B")})
	if !errors.Is(err, ErrInvalidID) {
		t.Fatalf("got %v; want ErrInvalidID", err)
	}
	if repo.callCount() != 0 || store.uploadCalls != 0 {
		t.Fatalf("repo calls=%d upload calls=%d; want none", repo.callCount(), store.uploadCalls)
	}
}

func TestUploadPhotoUnknownAlbum(t *testing.T) {
	s, _, store := newTestService(t)

	_, err := s.UploadPhoto(context.Background(), "2b1c0f1e-3c4d-4e5f-8a9b-0c1d2e3f4a5b", PhotoUpload{Filename: "x.jpg", Body: strings.NewReader("B")})
	if !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("got %v; want ErrAlbumNotFound", err)
	}
	if store.uploadCalls != 0 || store.objectCount() != 0 {
		t.Fatalf("object written for unknown album")
	}
}

func TestUploadPhotoStoresObjectThenRecord(t *testing.T) {
	at := time.Date(2024, 5, 1, 18, 30, 0, 42000, time.UTC)
	s, repo, store := newTestService(t, WithClock(func() time.Time { return at }))
	mustClient(t, s, "Ana", "ana@x.com")
	a := mustAlbum(t, s, AlbumInput{Title: "Wedding", ClientName: "Ana"})

	p, err := s.UploadPhoto(context.Background(), a.ID, PhotoUpload{Filename: "x.jpg", Size: 1, Body: strings.NewReader("B"), Description: "first dance"})
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}

	if len(repo.photos) != 1 {
		t.Fatalf("photo records=%d; want 1", len(repo.photos))
	}
	key := repo.photos[0].StorageKey
	pattern := regexp.MustCompile(`^albums/` + regexp.QuoteMeta(a.ID) + `/\d{14,20}_x\.jpg$`)
	if !pattern.MatchString(key) {
		t.Fatalf("storage key %q does not match %s", key, pattern)
	}
	if key != "albums/"+a.ID+"/20240501183000000042_x.jpg" {
		t.Fatalf("storage key %q", key)
	}
	if string(store.objects[key]) != "B" || store.types[key] != "image/jpeg" {
		t.Fatalf("object=%q type=%q", store.objects[key], store.types[key])
	}

	if p.AlbumID != a.ID || p.URL == "" || !p.UploadedAt.Equal(at) {
		t.Fatalf("unexpected view %+v", p)
	}
	if p.Description == nil || *p.Description != "first dance" {
		t.Fatalf("description=%v", p.Description)
	}
	if strings.Contains(p.URL, "storage_key") {
		t.Fatalf("url leaks internals: %q", p.URL)
	}
}

func TestUploadPhotoDefaultsFilenameAndHonorsContentType(t *testing.T) {
	s, repo, store := newTestService(t)
	mustClient(t, s, "Ana", "ana@x.com")
	a := mustAlbum(t, s, AlbumInput{Title: "Wedding", ClientName: "Ana"})

	if _, err := s.UploadPhoto(context.Background(), a.ID, PhotoUpload{Body: strings.NewReader("B"), ContentType: "image/png"}); err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	key := repo.photos[0].StorageKey
	if !strings.HasSuffix(key, "_photo.jpg") {
		t.Fatalf("key %q lacks default filename", key)
	}
	if store.types[key] != "image/png" {
		t.Fatalf("content type %q; want caller-supplied image/png", store.types[key])
	}
	if repo.photos[0].Description != nil {
		t.Fatalf("description should be unset")
	}
}

func TestUploadPhotoStorageFailureLeavesNoRecord(t *testing.T) {
	s, repo, store := newTestService(t)
	mustClient(t, s, "Ana", "ana@x.com")
	a := mustAlbum(t, s, AlbumInput{Title: "Wedding", ClientName: "Ana"})

	cause := errors.New("quota exceeded")
	store.uploadErr = cause
	_, err := s.UploadPhoto(context.Background(), a.ID, PhotoUpload{Filename: "x.jpg", Body: strings.NewReader("B")})
	if !errors.Is(err, ErrUploadFailed) || !errors.Is(err, cause) {
		t.Fatalf("got %v; want ErrUploadFailed wrapping cause", err)
	}
	if len(repo.photos) != 0 {
		t.Fatalf("photo record created after failed upload")
	}
}

func TestUploadPhotoInsertFailureRemovesObject(t *testing.T) {
	s, repo, store := newTestService(t)
	mustClient(t, s, "Ana", "ana@x.com")
	a := mustAlbum(t, s, AlbumInput{Title: "Wedding", ClientName: "Ana"})

	repo.insertPhotoErr = errors.New("connection reset")
	_, err := s.UploadPhoto(context.Background(), a.ID, PhotoUpload{Filename: "x.jpg", Body: strings.NewReader("B")})
	if err == nil || errors.Is(err, ErrUploadFailed) {
		t.Fatalf("got %v; want insert error", err)
	}
	if store.uploadCalls != 1 {
		t.Fatalf("upload calls=%d; want 1", store.uploadCalls)
	}
	if store.objectCount() != 0 {
		t.Fatalf("orphaned object left behind")
	}
}

func TestListPhotosSignsFreshURLs(t *testing.T) {
	s, _, store := newTestService(t, WithPresignTTL(30*time.Minute))
	mustClient(t, s, "Ana", "ana@x.com")
	a := mustAlbum(t, s, AlbumInput{Title: "Wedding", ClientName: "Ana"})
	if _, err := s.UploadPhoto(context.Background(), a.ID, PhotoUpload{Filename: "x.jpg", Body: strings.NewReader("B")}); err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}

	first, err := s.ListPhotos(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListPhotos: %v", err)
	}
	second, err := s.ListPhotos(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListPhotos: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("got %d and %d photos; want 1", len(first), len(second))
	}
	if first[0].URL == "" || first[0].URL == second[0].URL {
		t.Fatalf("urls %q and %q; want two distinct non-empty urls", first[0].URL, second[0].URL)
	}
	if first[0].ID != second[0].ID {
		t.Fatalf("different photos returned")
	}
	if store.lastTTL != 30*time.Minute {
		t.Fatalf("ttl=%s; want 30m", store.lastTTL)
	}
}

func TestListPhotosAlbumChecks(t *testing.T) {
	s, _, _ := newTestService(t)
	if _, err := s.ListPhotos(context.Background(), "123"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("got %v; want ErrInvalidID", err)
	}
	if _, err := s.ListPhotos(context.Background(), "2b1c0f1e-3c4d-4e5f-8a9b-0c1d2e3f4a5b"); !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("got %v; want ErrAlbumNotFound", err)
	}
}

func TestEndToEndWorkflow(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	mustClient(t, s, "Ana", "ana@x.com")
	a := mustAlbum(t, s, AlbumInput{
		Title:      "Wedding",
		ClientName: "Ana",
		EventDate:  "2024-05-01",
		Tags:       []string{"wedding", "outdoor"},
	})
	if _, err := s.UploadPhoto(ctx, a.ID, PhotoUpload{Filename: "x.jpg", Body: strings.NewReader("bytes")}); err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}

	photos, err := s.ListPhotos(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListPhotos: %v", err)
	}
	if len(photos) != 1 || photos[0].AlbumID != a.ID {
		t.Fatalf("photos=%+v", photos)
	}
	if !strings.HasPrefix(photos[0].URL, "https://") {
		t.Fatalf("malformed url %q", photos[0].URL)
	}
}

func TestUploadPhotoKeyTakenKeepsObject(t *testing.T) {
	s, repo, store := newTestService(t)
	mustClient(t, s, "Ana", "ana@x.com")
	a := mustAlbum(t, s, AlbumInput{Title: "Wedding", ClientName: "Ana"})

	repo.insertPhotoErr = ErrKeyTaken
	_, err := s.UploadPhoto(context.Background(), a.ID, PhotoUpload{Filename: "x.jpg", Body: strings.NewReader("B")})
	if !errors.Is(err, ErrKeyTaken) {
		t.Fatalf("got %v; want ErrKeyTaken", err)
	}
	if store.objectCount() != 1 {
		t.Fatalf("objects=%d; the object of the recorded photo must survive", store.objectCount())
	}
}

func TestUploadPhotoSigningFailureStillReturnsPhoto(t *testing.T) {
	s, repo, store := newTestService(t)
	mustClient(t, s, "Ana", "ana@x.com")
	a := mustAlbum(t, s, AlbumInput{Title: "Wedding", ClientName: "Ana"})

	store.presignErr = errors.New("signer unavailable")
	p, err := s.UploadPhoto(context.Background(), a.ID, PhotoUpload{Filename: "x.jpg", Body: strings.NewReader("B")})
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	if len(repo.photos) != 1 || p.ID != repo.photos[0].ID {
		t.Fatalf("photo not recorded: %+v", repo.photos)
	}
	if p.URL != "" || p.AlbumID != a.ID {
		t.Fatalf("unexpected view %+v", p)
	}
	if store.objectCount() != 1 {
		t.Fatalf("object removed after successful insert")
	}
}
