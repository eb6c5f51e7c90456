package media

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/roberta/studio/internal/response"
)

// maxUploadBytes caps the multipart body of a photo upload.
const maxUploadBytes = 64 << 20

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// Handler holds HTTP handlers for clients, albums and photos.
type Handler struct {
	svc *Service
	log *zap.Logger
}

// NewHandler creates a new media Handler.
func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts the media routes on r. Writes go through requireAuth.
func (h *Handler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.ListClients)
		r.With(requireAuth).Post("/", h.CreateClient)
	})
	r.Route("/albums", func(r chi.Router) {
		r.Get("/", h.ListAlbums)
		r.With(requireAuth).Post("/", h.CreateAlbum)
		r.Get("/by_tag", h.ListAlbumsByTag)
		r.Get("/by_client", h.ListAlbumsByClient)
		r.Get("/{album_id}/photos", h.ListPhotos)
		r.With(requireAuth).Post("/{album_id}/photos", h.UploadPhoto)
	})
}

type createClientRequest struct {
	Name  string `json:"name"  example:"Ana"`
	Email string `json:"email" example:"ana@x.com"`
}

type createAlbumRequest struct {
	Title      string   `json:"title"       example:"Wedding"`
	ClientName string   `json:"client_name" example:"Ana"`
	EventDate  string   `json:"event_date"  example:"2024-05-01"`
	Tags       []string `json:"tags"`
}

// CreateClient godoc
//
//	@Summary		Register client
//	@Description	Register a studio client. Emails are unique across clients.
//	@Tags			clients
//	@Accept			json
//	@Produce		json
//	@Security		APIKey
//	@Param			request	body		createClientRequest	true	"Client details"
//	@Success		200		{object}	response.Envelope{data=ClientView}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Router			/clients [post]
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	c, err := h.svc.RegisterClient(r.Context(), req.Name, req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, c)
}

// ListClients godoc
//
//	@Summary	List clients
//	@Tags		clients
//	@Produce	json
//	@Success	200	{object}	response.Envelope{data=[]ClientView}
//	@Router		/clients [get]
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.ListClients(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, clients)
}

// CreateAlbum godoc
//
//	@Summary		Create album
//	@Description	Create an album for an existing client, referenced by name.
//	@Tags			albums
//	@Accept			json
//	@Produce		json
//	@Security		APIKey
//	@Param			request	body		createAlbumRequest	true	"Album details"
//	@Success		200		{object}	response.Envelope{data=AlbumView}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/albums [post]
func (h *Handler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req createAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	a, err := h.svc.CreateAlbum(r.Context(), AlbumInput{
		Title:      req.Title,
		ClientName: req.ClientName,
		EventDate:  req.EventDate,
		Tags:       req.Tags,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, a)
}

// ListAlbums godoc
//
//	@Summary	List albums
//	@Tags		albums
//	@Produce	json
//	@Success	200	{object}	response.Envelope{data=[]AlbumView}
//	@Router		/albums [get]
func (h *Handler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.svc.ListAlbums(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, albums)
}

// ListAlbumsByTag godoc
//
//	@Summary	List albums with a tag
//	@Tags		albums
//	@Produce	json
//	@Param		tag	query		string	true	"Tag to match"
//	@Success	200	{object}	response.Envelope{data=[]AlbumView}
//	@Failure	400	{object}	response.Envelope
//	@Router		/albums/by_tag [get]
func (h *Handler) ListAlbumsByTag(w http.ResponseWriter, r *http.Request) {
	albums, err := h.svc.ListAlbumsByTag(r.Context(), r.URL.Query().Get("tag"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, albums)
}

// ListAlbumsByClient godoc
//
//	@Summary	List albums of a client
//	@Tags		albums
//	@Produce	json
//	@Param		client_name	query		string	true	"Client name"
//	@Success	200			{object}	response.Envelope{data=[]AlbumView}
//	@Failure	400			{object}	response.Envelope
//	@Router		/albums/by_client [get]
func (h *Handler) ListAlbumsByClient(w http.ResponseWriter, r *http.Request) {
	albums, err := h.svc.ListAlbumsByClient(r.Context(), r.URL.Query().Get("client_name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, albums)
}

// UploadPhoto godoc
//
//	@Summary		Upload photo
//	@Description	Upload one photo to an album. The response carries a temporary download URL.
//	@Tags			photos
//	@Accept			mpfd
//	@Produce		json
//	@Security		APIKey
//	@Param			album_id	path		string	true	"Album ID"
//	@Param			file		formData	file	true	"Photo content"
//	@Param			description	formData	string	false	"Optional description"
//	@Success		200			{object}	response.Envelope{data=PhotoView}
//	@Failure		400			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/albums/{album_id}/photos [post]
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	albumID := chi.URLParam(r, "album_id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		response.BadRequest(w, "invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	p, err := h.svc.UploadPhoto(r.Context(), albumID, PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
		Description: r.FormValue("description"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, p)
}

// ListPhotos godoc
//
//	@Summary	List photos of an album
//	@Tags		photos
//	@Produce	json
//	@Param		album_id	path		string	true	"Album ID"
//	@Success	200			{object}	response.Envelope{data=[]PhotoView}
//	@Failure	400			{object}	response.Envelope
//	@Failure	404			{object}	response.Envelope
//	@Router		/albums/{album_id}/photos [get]
func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.svc.ListPhotos(r.Context(), chi.URLParam(r, "album_id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, photos)
}

// fail translates service errors into responses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrEmailTaken):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrClientNotFound),
		errors.Is(err, ErrAlbumNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrUploadFailed):
		// The cause names the bucket and key; it is logged by the service only.
		response.Error(w, http.StatusInternalServerError, ErrUploadFailed.Error())
	default:
		h.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		response.InternalError(w)
	}
}
