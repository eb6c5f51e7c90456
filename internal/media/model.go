// Package media manages studio clients, their albums and the photos stored for
// each album. Metadata lives in a document store; photo content lives in object
// storage and is only ever handed out through presigned URLs.
package media

import (
	"errors"
	"time"
)

// Client is a registered studio customer.
type Client struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// Album groups photos for a single client. ClientName is the name the client had
// when the album was created; ClientID is kept alongside it for stable lookups.
type Album struct {
	ID         string
	Title      string
	ClientID   string
	ClientName string
	EventDate  string
	Tags       []string
	CreatedAt  time.Time
}

// Photo is the metadata record for one uploaded object.
type Photo struct {
	ID          string
	AlbumID     string
	StorageKey  string
	Description *string
	UploadedAt  time.Time
}

// AlbumFilter selects albums. The zero value matches every album; set fields are ANDed.
type AlbumFilter struct {
	// Tag matches albums whose tag list contains it.
	Tag string
	// ClientName matches the stored client name exactly.
	ClientName string
}

var (
	// ErrNotFound is returned by repositories when no record matches.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when a client with the same email already exists.
	ErrEmailTaken = errors.New("a client with this email already exists")

	// ErrKeyTaken is returned when a photo record already holds the storage key.
	ErrKeyTaken = errors.New("storage key already recorded")

	// ErrValidation marks rejected input; the wrapping error names the field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned for an album id the store could never have issued.
	ErrInvalidID = errors.New("invalid album_id")

	// ErrClientNotFound is returned when an album references an unknown client.
	ErrClientNotFound = errors.New("client not found")

	// ErrAlbumNotFound is returned when the album does not exist.
	ErrAlbumNotFound = errors.New("album not found")

	// ErrUploadFailed wraps object-storage failures during photo upload.
	ErrUploadFailed = errors.New("failed to upload photo")
)
