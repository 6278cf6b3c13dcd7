package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/stay-booking/internal/service"
)

// maxImages caps the pictures accepted with one stay.
const maxImages = 10

// StayHandler serves a host's stays and the public stay page.
type StayHandler struct {
	Stays StayAPI
	Log   *zap.Logger
}

func NewStayHandler(stays StayAPI, log *zap.Logger) *StayHandler {
	return &StayHandler{Stays: stays, Log: log}
}

// List returns the caller's stays.
func (h *StayHandler) List(c echo.Context) error {
	host, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	stays, err := h.Stays.ListByHost(ctx, host)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": stays})
}

// Get returns one of the caller's stays.
func (h *StayHandler) Get(c echo.Context) error {
	host, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	st, err := h.Stays.GetByIDAndHost(ctx, id, host)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, st)
}

// PublicGet returns any stay without authentication.
func (h *StayHandler) PublicGet(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	st, err := h.Stays.GetByID(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, st)
}

// Create accepts a multipart form with name, description, address,
// guest_number and zero or more images.
func (h *StayHandler) Create(c echo.Context) error {
	host, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}
	guests, err := strconv.Atoi(strings.TrimSpace(c.FormValue("guest_number")))
	if err != nil || guests < 1 {
		return badRequest(c, "guest_number must be a positive integer")
	}
	in := service.NewStayInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Address:     c.FormValue("address"),
		GuestNumber: guests,
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["images"]
	}
	if len(files) > maxImages {
		return badRequest(c, "too many images")
	}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "unreadable image "+fh.Filename)
		}
		defer f.Close()
		in.Images = append(in.Images, service.ImageUpload{Filename: fh.Filename, Content: f})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	st, err := h.Stays.Create(ctx, host, in)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, st)
}

// Delete removes one of the caller's stays.
func (h *StayHandler) Delete(c echo.Context) error {
	host, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Stays.Delete(ctx, id, host); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
