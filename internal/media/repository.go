package media

import "context"

// Repository persists clients, albums and photos, one collection per kind.
// Implementations assign identifiers on insert, enforce nothing beyond record
// shape and the store-level unique constraints, and never retry.
type Repository interface {
	// ValidID reports whether id has the shape of an identifier this store issues.
	ValidID(id string) bool

	// InsertClient stores c and sets c.ID. Returns ErrEmailTaken on a duplicate email.
	InsertClient(ctx context.Context, c *Client) error
	FindClientByEmail(ctx context.Context, email string) (*Client, error)
	FindClientByName(ctx context.Context, name string) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)

	InsertAlbum(ctx context.Context, a *Album) error
	FindAlbum(ctx context.Context, id string) (*Album, error)
	ListAlbums(ctx context.Context, f AlbumFilter) ([]Album, error)

	InsertPhoto(ctx context.Context, p *Photo) error
	ListPhotos(ctx context.Context, albumID string) ([]Photo, error)
}
