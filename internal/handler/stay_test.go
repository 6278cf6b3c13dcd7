package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/stay-booking/internal/model"
	"github.com/iliyamo/stay-booking/internal/service"
)

func multipartStay(t *testing.T, fields map[string]string, images map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range images {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestStayCreate(t *testing.T) {
	stays := &MockStays{}
	h := NewStayHandler(stays, zap.NewNop())
	stays.On("Create", mock.Anything, "hana", mock.MatchedBy(func(in service.NewStayInput) bool {
		return in.Name == "Cabin" && in.Address == "1 Lake Rd" && in.GuestNumber == 4 &&
			len(in.Images) == 1 && in.Images[0].Filename == "front.jpg"
	})).Return(&model.Stay{ID: 3, Name: "Cabin", Host: "hana", GuestNumber: 4}, nil)

	body, ctype := multipartStay(t,
		map[string]string{"name": "Cabin", "address": "1 Lake Rd", "guest_number": "4"},
		map[string]string{"front.jpg": "jpeg-bytes"})
	req := httptest.NewRequest(http.MethodPost, "/v1/stays", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set(CtxUsername, "hana")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	stays.AssertExpectations(t)
}

func TestStayCreate_BadGuestNumber(t *testing.T) {
	stays := &MockStays{}
	h := NewStayHandler(stays, zap.NewNop())

	body, ctype := multipartStay(t, map[string]string{"name": "Cabin", "address": "x", "guest_number": "0"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/stays", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set(CtxUsername, "hana")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	stays.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestStayCreate_ErrorMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"address":     {service.ErrInvalidAddress, http.StatusBadRequest},
		"geocoder":    {service.ErrGeoCoding, http.StatusBadGateway},
		"image type":  {service.ErrUnsupportedImage, http.StatusBadRequest},
		"disk":        {service.ErrImageUpload, http.StatusInternalServerError},
		"bad content": {service.ErrInvalidStay, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			stays := &MockStays{}
			h := NewStayHandler(stays, zap.NewNop())
			stays.On("Create", mock.Anything, "hana", mock.Anything).Return(nil, tc.err)

			body, ctype := multipartStay(t, map[string]string{"name": "Cabin", "address": "x", "guest_number": "2"}, nil)
			req := httptest.NewRequest(http.MethodPost, "/v1/stays", body)
			req.Header.Set(echo.HeaderContentType, ctype)
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)
			c.Set(CtxUsername, "hana")

			require.NoError(t, h.Create(c))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestStayDelete(t *testing.T) {
	stays := &MockStays{}
	h := NewStayHandler(stays, zap.NewNop())
	stays.On("Delete", mock.Anything, uint64(3), "hana").Return(service.ErrStayHasReservations)

	c, rec := newContext(http.MethodDelete, "/v1/stays/3", "", "hana")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStayPublicGet(t *testing.T) {
	stays := &MockStays{}
	h := NewStayHandler(stays, zap.NewNop())
	stays.On("GetByID", mock.Anything, uint64(3)).
		Return(&model.Stay{ID: 3, Name: "Cabin", Host: "hana", GuestNumber: 2, Images: []model.StayImage{}}, nil)
	stays.On("GetByID", mock.Anything, uint64(4)).Return(nil, service.ErrStayNotFound)

	c, rec := newContext(http.MethodGet, "/v1/public/stays/3", "", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.PublicGet(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Cabin"`)

	c, rec = newContext(http.MethodGet, "/v1/public/stays/4", "", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	require.NoError(t, h.PublicGet(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
