package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository on PostgreSQL tables with UUID keys.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository with the given connection pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ValidID accepts the canonical 36-character UUID form.
func (r *PostgresRepository) ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

const clientColumns = `id, name, email, created_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	return c, err
}

// InsertClient inserts c and fills in its generated id and timestamp.
func (r *PostgresRepository) InsertClient(ctx context.Context, c *Client) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO clients (name, email) VALUES ($1, $2) RETURNING id, created_at`,
		c.Name, c.Email,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// FindClientByEmail fetches a client by exact email.
func (r *PostgresRepository) FindClientByEmail(ctx context.Context, email string) (*Client, error) {
	return r.findClient(ctx, "email", email)
}

// FindClientByName fetches a client by exact name. With duplicate names the
// earliest registration wins.
func (r *PostgresRepository) FindClientByName(ctx context.Context, name string) (*Client, error) {
	return r.findClient(ctx, "name", name)
}

func (r *PostgresRepository) findClient(ctx context.Context, column, value string) (*Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE `+column+` = $1 ORDER BY created_at LIMIT 1`,
		value,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find client by %s: %w", column, err)
	}
	return &c, nil
}

// ListClients returns every client.
func (r *PostgresRepository) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	clients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Client, error) {
		return scanClient(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

const albumColumns = `id, title, client_id, client_name, event_date, tags, created_at`

func scanAlbum(row pgx.Row) (Album, error) {
	var (
		a        Album
		clientID *string
	)
	err := row.Scan(&a.ID, &a.Title, &clientID, &a.ClientName, &a.EventDate, &a.Tags, &a.CreatedAt)
	if clientID != nil {
		a.ClientID = *clientID
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a, err
}

// InsertAlbum inserts a and fills in its generated id and timestamp.
func (r *PostgresRepository) InsertAlbum(ctx context.Context, a *Album) error {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO albums (title, client_id, client_name, event_date, tags)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		a.Title, nullIfEmpty(a.ClientID), a.ClientName, a.EventDate, tags,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert album: %w", err)
	}
	a.Tags = tags
	return nil
}

// FindAlbum fetches an album by id.
func (r *PostgresRepository) FindAlbum(ctx context.Context, id string) (*Album, error) {
	a, err := scanAlbum(r.db.QueryRow(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find album: %w", err)
	}
	return &a, nil
}

// ListAlbums returns albums matching f.
func (r *PostgresRepository) ListAlbums(ctx context.Context, f AlbumFilter) ([]Album, error) {
	query, args := albumQuery(f)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	albums, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Album, error) {
		return scanAlbum(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	return albums, nil
}

// albumQuery builds the SELECT for f. Set filters are ANDed; the tag test uses
// array containment so the GIN index on tags applies.
func albumQuery(f AlbumFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.Tag != "" {
		args = append(args, f.Tag)
		where = append(where, fmt.Sprintf("tags @> ARRAY[$%d]::text[]", len(args)))
	}
	if f.ClientName != "" {
		args = append(args, f.ClientName)
		where = append(where, fmt.Sprintf("client_name = $%d", len(args)))
	}

	query := `SELECT ` + albumColumns + ` FROM albums`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at`
	return query, args
}

// InsertPhoto inserts p and fills in its generated id. A storage key already
// recorded yields ErrKeyTaken.
func (r *PostgresRepository) InsertPhoto(ctx context.Context, p *Photo) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO photos (album_id, storage_key, description, uploaded_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		p.AlbumID, p.StorageKey, p.Description, p.UploadedAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrKeyTaken
		}
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

// ListPhotos returns every photo of the album.
func (r *PostgresRepository) ListPhotos(ctx context.Context, albumID string) ([]Photo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, album_id, storage_key, description, uploaded_at
		 FROM photos WHERE album_id = $1 ORDER BY uploaded_at`,
		albumID,
	)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	photos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Photo, error) {
		var p Photo
		err := row.Scan(&p.ID, &p.AlbumID, &p.StorageKey, &p.Description, &p.UploadedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
