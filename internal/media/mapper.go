package media

import (
	"context"
	"fmt"
	"time"

	"github.com/roberta/studio/internal/storage"
)

// ClientView is the external representation of a Client.
type ClientView struct {
	ID    string `json:"id"    example:"6650c2f1e4b0a1b2c3d4e5f6"`
	Name  string `json:"name"  example:"Ana"`
	Email string `json:"email" example:"ana@x.com"`
}

// AlbumView is the external representation of an Album.
type AlbumView struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"       example:"Wedding"`
	ClientName string   `json:"client_name" example:"Ana"`
	EventDate  string   `json:"event_date"  example:"2024-05-01"`
	Tags       []string `json:"tags"`
}

// PhotoView is the external representation of a Photo. URL is a presigned link
// minted for this response only.
type PhotoView struct {
	ID          string    `json:"id"`
	AlbumID     string    `json:"album_id"`
	URL         string    `json:"url"`
	Description *string   `json:"description"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Mapper converts records into views. Photo mapping signs a fresh URL per call.
type Mapper struct {
	store storage.Storage
	ttl   time.Duration
}

// NewMapper returns a Mapper that signs photo URLs valid for ttl.
func NewMapper(store storage.Storage, ttl time.Duration) *Mapper {
	if ttl <= 0 {
		ttl = storage.DefaultPresignTTL
	}
	return &Mapper{store: store, ttl: ttl}
}

// Client maps c.
func (m *Mapper) Client(c Client) ClientView {
	return ClientView{ID: c.ID, Name: c.Name, Email: c.Email}
}

// Album maps a. Tags are never null in the output.
func (m *Mapper) Album(a Album) AlbumView {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return AlbumView{
		ID:         a.ID,
		Title:      a.Title,
		ClientName: a.ClientName,
		EventDate:  a.EventDate,
		Tags:       tags,
	}
}

// Photo maps p, attaching a newly signed read URL for its storage key.
func (m *Mapper) Photo(ctx context.Context, p Photo) (PhotoView, error) {
	u, err := m.store.PresignGet(ctx, p.StorageKey, m.ttl)
	if err != nil {
		return PhotoView{}, fmt.Errorf("sign url for photo %s: %w", p.ID, err)
	}
	return photoView(p, u), nil
}

func photoView(p Photo, url string) PhotoView {
	return PhotoView{
		ID:          p.ID,
		AlbumID:     p.AlbumID,
		URL:         url,
		Description: p.Description,
		UploadedAt:  p.UploadedAt,
	}
}
