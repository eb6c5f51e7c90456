package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/roberta/studio/internal/db"
)

type clientDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	CreatedAt time.Time     `bson:"created_at"`
}

func (d clientDoc) record() Client {
	return Client{ID: d.ID.Hex(), Name: d.Name, Email: d.Email, CreatedAt: d.CreatedAt}
}

type albumDoc struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Title      string        `bson:"title"`
	ClientID   bson.ObjectID `bson:"client_id,omitempty"`
	ClientName string        `bson:"client_name"`
	EventDate  string        `bson:"event_date"`
	Tags       []string      `bson:"tags"`
	CreatedAt  time.Time     `bson:"created_at"`
}

func (d albumDoc) record() Album {
	a := Album{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		ClientName: d.ClientName,
		EventDate:  d.EventDate,
		Tags:       d.Tags,
		CreatedAt:  d.CreatedAt,
	}
	if !d.ClientID.IsZero() {
		a.ClientID = d.ClientID.Hex()
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a
}

type photoDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	AlbumID     bson.ObjectID `bson:"album_id"`
	StorageKey  string        `bson:"storage_key"`
	Description *string       `bson:"description,omitempty"`
	UploadedAt  time.Time     `bson:"uploaded_at"`
}

func (d photoDoc) record() Photo {
	return Photo{
		ID:          d.ID.Hex(),
		AlbumID:     d.AlbumID.Hex(),
		StorageKey:  d.StorageKey,
		Description: d.Description,
		UploadedAt:  d.UploadedAt,
	}
}

// MongoRepository implements Repository on MongoDB collections keyed by ObjectID.
type MongoRepository struct {
	clients *mongo.Collection
	albums  *mongo.Collection
	photos  *mongo.Collection
}

// NewMongoRepository binds the repository to the clients, albums and photos
// collections of database.
func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{
		clients: database.Collection(db.ClientsCollection),
		albums:  database.Collection(db.AlbumsCollection),
		photos:  database.Collection(db.PhotosCollection),
	}
}

// ValidID accepts 24-character hex ObjectIDs.
func (r *MongoRepository) ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}

// InsertClient inserts c and fills in its generated id and timestamp.
func (r *MongoRepository) InsertClient(ctx context.Context, c *Client) error {
	doc := clientDoc{
		ID:        bson.NewObjectID(),
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.clients.InsertOne(ctx, doc); err != nil {
		if isDuplicateKey(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert client: %w", err)
	}
	*c = doc.record()
	return nil
}

// FindClientByEmail fetches a client by exact email.
func (r *MongoRepository) FindClientByEmail(ctx context.Context, email string) (*Client, error) {
	return r.findClient(ctx, "email", email)
}

// FindClientByName fetches a client by exact name.
func (r *MongoRepository) FindClientByName(ctx context.Context, name string) (*Client, error) {
	return r.findClient(ctx, "name", name)
}

func (r *MongoRepository) findClient(ctx context.Context, field, value string) (*Client, error) {
	var doc clientDoc
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	err := r.clients.FindOne(ctx, bson.D{{Key: field, Value: value}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find client by %s: %w", field, err)
	}
	c := doc.record()
	return &c, nil
}

// ListClients returns every client.
func (r *MongoRepository) ListClients(ctx context.Context) ([]Client, error) {
	var docs []clientDoc
	if err := findAll(ctx, r.clients, bson.D{}, &docs); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]Client, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

// InsertAlbum inserts a and fills in its generated id and timestamp.
func (r *MongoRepository) InsertAlbum(ctx context.Context, a *Album) error {
	doc := albumDoc{
		ID:         bson.NewObjectID(),
		Title:      a.Title,
		ClientName: a.ClientName,
		EventDate:  a.EventDate,
		Tags:       a.Tags,
		CreatedAt:  time.Now().UTC(),
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if a.ClientID != "" {
		oid, err := bson.ObjectIDFromHex(a.ClientID)
		if err != nil {
			return fmt.Errorf("insert album: client id %q: %w", a.ClientID, err)
		}
		doc.ClientID = oid
	}
	if _, err := r.albums.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert album: %w", err)
	}
	*a = doc.record()
	return nil
}

// FindAlbum fetches an album by id.
func (r *MongoRepository) FindAlbum(ctx context.Context, id string) (*Album, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc albumDoc
	err = r.albums.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find album: %w", err)
	}
	a := doc.record()
	return &a, nil
}

// ListAlbums returns albums matching f. A scalar match on an array field is a
// membership test in MongoDB.
func (r *MongoRepository) ListAlbums(ctx context.Context, f AlbumFilter) ([]Album, error) {
	filter := bson.D{}
	if f.Tag != "" {
		filter = append(filter, bson.E{Key: "tags", Value: f.Tag})
	}
	if f.ClientName != "" {
		filter = append(filter, bson.E{Key: "client_name", Value: f.ClientName})
	}

	var docs []albumDoc
	if err := findAll(ctx, r.albums, filter, &docs); err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	out := make([]Album, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

// InsertPhoto inserts p and fills in its generated id. A storage key already
// recorded yields ErrKeyTaken.
func (r *MongoRepository) InsertPhoto(ctx context.Context, p *Photo) error {
	albumID, err := bson.ObjectIDFromHex(p.AlbumID)
	if err != nil {
		return fmt.Errorf("insert photo: album id %q: %w", p.AlbumID, err)
	}
	doc := photoDoc{
		ID:          bson.NewObjectID(),
		AlbumID:     albumID,
		StorageKey:  p.StorageKey,
		Description: p.Description,
		UploadedAt:  p.UploadedAt,
	}
	if _, err := r.photos.InsertOne(ctx, doc); err != nil {
		if isDuplicateKey(err) {
			return ErrKeyTaken
		}
		return fmt.Errorf("insert photo: %w", err)
	}
	p.ID = doc.ID.Hex()
	return nil
}

// ListPhotos returns every photo of the album.
func (r *MongoRepository) ListPhotos(ctx context.Context, albumID string) ([]Photo, error) {
	oid, err := bson.ObjectIDFromHex(albumID)
	if err != nil {
		return []Photo{}, nil
	}
	var docs []photoDoc
	if err := findAll(ctx, r.photos, bson.D{{Key: "album_id", Value: oid}}, &docs); err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	out := make([]Photo, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

// isDuplicateKey reports whether err is a unique-index violation (code 11000).
func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// findAll drains the cursor for filter into results.
func findAll(ctx context.Context, coll *mongo.Collection, filter bson.D, results any) error {
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return err
	}
	return cur.All(ctx, results)
}
