// Copyright © 2026 The Space Place Authors

// This file is part of Space Place <https://github.com/Spaces-Place/space-place-space>.

// Space Place is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License
// as published by the Free Software Foundation,
// either version 3 of the License, or (at your option)
// any later version.

// Space Place is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public License
// along with Space Place.  If not, see <http://www.gnu.org/licenses/>.

package spaceapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Spaces-Place/space-place-space/auth"
	"github.com/Spaces-Place/space-place-space/config"
	"github.com/Spaces-Place/space-place-space/gateway"
	"github.com/Spaces-Place/space-place-space/gateway/spaceapi"
	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/Spaces-Place/space-place-space/spaces"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const secret = "test-secret"

type fakeService struct {
	err error

	createdOwner string
	created      spaces.SpaceInput
	images       []spaces.ImageUpload
	updated      spaces.UpdateInput
	deleted      string
	callerId     string
	listQuery    spaces.ListQuery
	nearbyQuery  spaces.NearbyQuery
	quoteRequest spaces.QuoteRequest
	id           primitive.ObjectID
}

func (f *fakeService) Create(ctx context.Context, ownerId string, in spaces.SpaceInput, images []spaces.ImageUpload) (primitive.ObjectID, error) {
	f.createdOwner = ownerId
	f.created = in
	f.images = images
	return f.id, f.err
}

func (f *fakeService) Get(ctx context.Context, spaceId string) (*spaces.SpaceDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &spaces.SpaceDetail{SpaceId: spaceId, Name: "Studio"}, nil
}

func (f *fakeService) List(ctx context.Context, q spaces.ListQuery) ([]spaces.SpaceSummary, error) {
	f.listQuery = q
	return []spaces.SpaceSummary{}, f.err
}

func (f *fakeService) Update(ctx context.Context, callerId string, spaceId string, in spaces.UpdateInput, images []spaces.ImageUpload) error {
	f.callerId = callerId
	f.updated = in
	f.images = images
	return f.err
}

func (f *fakeService) Delete(ctx context.Context, callerId string, spaceId string) error {
	f.callerId = callerId
	f.deleted = spaceId
	return f.err
}

func (f *fakeService) Nearby(ctx context.Context, q spaces.NearbyQuery) ([]spaces.SpaceSummary, error) {
	f.nearbyQuery = q
	return []spaces.SpaceSummary{}, f.err
}

func (f *fakeService) Quote(ctx context.Context, req spaces.QuoteRequest) (*spaces.Quote, error) {
	f.quoteRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return &spaces.Quote{Name: "Studio", TotalAmount: 45000, Quantity: 3}, nil
}

func newEngine(t *testing.T, service spaceapi.SpaceService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	res, err := auth.New(auth.Params{
		Log:     logging.New(),
		Viper:   viper.New(),
		Secrets: &config.Secrets{JWTSecret: secret},
	})
	require.NoError(t, err)

	engine := gin.New()
	handler := spaceapi.NewHandler(logging.New(), res.Auth, service, false)
	handler.Setup(engine, engine.Group(gateway.ApiPrefix))
	return engine
}

func token(t *testing.T, userId string) string {
	tok, err := auth.Sign(secret, userId, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return "Bearer " + tok
}

func multipartBody(t *testing.T, fields map[string][]string, files map[string][]byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	for name, data := range files {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func createFields(ownerId string) map[string][]string {
	return map[string][]string{
		"owner_id":       {ownerId},
		"space_type":     {"STUDIO"},
		"space_name":     {"Studio"},
		"capacity":       {"4"},
		"space_size":     {"30"},
		"usage_unit":     {"TIME"},
		"unit_price":     {"15000"},
		"amenities":      {"wifi", "parking"},
		"description":    {"bright"},
		"location":       {`{"sido":"Seoul","address":"Mapo-gu 1","coordinates":[126.9,37.5]}`},
		"operating_hour": {`[{"day":"MONDAY","open":"09:00","close":"18:00"}]`},
	}
}

func do(engine *gin.Engine, method string, path string, body *bytes.Buffer, contentType string, authorization string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	res := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	d, _ := res["detail"].(string)
	return d
}

func TestCreate(t *testing.T) {
	service := &fakeService{id: primitive.NewObjectID()}
	engine := newEngine(t, service)

	body, ct := multipartBody(t, createFields("vendor-1"), map[string][]byte{"a.png": []byte("png")})
	w := do(engine, http.MethodPost, "/api/v1/spaces", body, ct, token(t, "vendor-1"))

	require.Equal(t, http.StatusCreated, w.Code)
	res := map[string]string{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, service.id.Hex(), res["space_id"])

	assert.Equal(t, "vendor-1", service.createdOwner)
	assert.Equal(t, spaces.SpaceType("STUDIO"), service.created.SpaceType)
	assert.Equal(t, 4, service.created.Capacity)
	assert.Equal(t, 15000, service.created.UnitPrice)
	assert.Equal(t, []string{"wifi", "parking"}, service.created.Amenities)
	assert.Equal(t, "Seoul", service.created.Location.Sido)
	assert.Equal(t, 126.9, service.created.Location.Point.Longitude())
	assert.Equal(t, 37.5, service.created.Location.Point.Latitude())
	assert.Len(t, service.created.OperatingHours, 1)
	require.Len(t, service.images, 1)
	assert.Equal(t, "a.png", service.images[0].Filename)
	assert.Equal(t, []byte("png"), service.images[0].Data)
}

func TestCreateRequiresToken(t *testing.T) {
	engine := newEngine(t, &fakeService{})

	body, ct := multipartBody(t, createFields("vendor-1"), map[string][]byte{"a.png": []byte("png")})
	w := do(engine, http.MethodPost, "/api/v1/spaces", body, ct, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOwnerMismatch(t *testing.T) {
	service := &fakeService{}
	engine := newEngine(t, service)

	body, ct := multipartBody(t, createFields("vendor-2"), map[string][]byte{"a.png": []byte("png")})
	w := do(engine, http.MethodPost, "/api/v1/spaces", body, ct, token(t, "vendor-1"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, service.createdOwner)
}

func TestCreateWithoutImages(t *testing.T) {
	engine := newEngine(t, &fakeService{})

	body, ct := multipartBody(t, createFields("vendor-1"), nil)
	w := do(engine, http.MethodPost, "/api/v1/spaces", body, ct, token(t, "vendor-1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvalidForm(t *testing.T) {
	engine := newEngine(t, &fakeService{})

	cases := map[string]string{
		"space_type": "CASTLE",
		"capacity":   "many",
		"usage_unit": "WEEK",
		"location":   `{"sido":"Seoul","coordinates":[126.9]}`,
	}
	for field, value := range cases {
		fields := createFields("vendor-1")
		fields[field] = []string{value}
		body, ct := multipartBody(t, fields, map[string][]byte{"a.png": []byte("png")})

		w := do(engine, http.MethodPost, "/api/v1/spaces", body, ct, token(t, "vendor-1"))
		assert.Equal(t, http.StatusBadRequest, w.Code, field)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{fmt.Errorf("%w: bad", spaces.ErrValidation), http.StatusBadRequest, "invalid input: bad"},
		{fmt.Errorf("%w: x", spaces.ErrNotFound), http.StatusNotFound, ""},
		{spaces.ErrForbidden, http.StatusUnauthorized, ""},
		{fmt.Errorf("%w: s3 down", spaces.ErrUpload), http.StatusInternalServerError, spaces.ErrUpload.Error()},
		{fmt.Errorf("%w: timeout", spaces.ErrConnectivity), http.StatusServiceUnavailable, spaces.ErrConnectivity.Error()},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, c := range cases {
		engine := newEngine(t, &fakeService{err: c.err})
		w := do(engine, http.MethodGet, "/api/v1/spaces/abc", nil, "", "")

		assert.Equal(t, c.status, w.Code, c.err.Error())
		if c.detail != "" {
			assert.Equal(t, c.detail, detail(t, w))
		}
	}
}

func TestGet(t *testing.T) {
	engine := newEngine(t, &fakeService{})

	w := do(engine, http.MethodGet, "/api/v1/spaces/abc", nil, "", "")

	require.Equal(t, http.StatusOK, w.Code)
	res := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "abc", res["space_id"])
	assert.Equal(t, "Studio", res["space_name"])
	assert.NotEmpty(t, res["message"])
}

func TestList(t *testing.T) {
	service := &fakeService{}
	engine := newEngine(t, service)

	w := do(engine, http.MethodGet, "/api/v1/spaces?skip=5&limit=20&space_type=STUDIO&sido=Seoul", nil, "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	assert.Equal(t, spaces.ListQuery{Skip: 5, Limit: 20, SpaceType: "STUDIO", Sido: "Seoul"}, service.listQuery)
}

func TestListDefaults(t *testing.T) {
	service := &fakeService{}
	engine := newEngine(t, service)

	w := do(engine, http.MethodGet, "/api/v1/spaces", nil, "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), service.listQuery.Skip)
	assert.Equal(t, int64(10), service.listQuery.Limit)
}

func TestListInvalidQuery(t *testing.T) {
	engine := newEngine(t, &fakeService{})

	for _, q := range []string{"skip=-1", "limit=0", "limit=101", "limit=x", "space_type=CASTLE"} {
		w := do(engine, http.MethodGet, "/api/v1/spaces?"+q, nil, "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestNearby(t *testing.T) {
	service := &fakeService{}
	engine := newEngine(t, service)

	w := do(engine, http.MethodGet, "/api/v1/spaces/nearby?longitude=127&latitude=37.5", nil, "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, spaces.NearbyQuery{Longitude: 127, Latitude: 37.5, RadiusKm: 1}, service.nearbyQuery)

	for _, q := range []string{"latitude=37.5", "longitude=NaN&latitude=37.5", "longitude=127&latitude=Inf", "longitude=127&latitude=37.5&radius=NaN"} {
		w = do(engine, http.MethodGet, "/api/v1/spaces/nearby?"+q, nil, "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestUpdate(t *testing.T) {
	service := &fakeService{}
	engine := newEngine(t, service)

	fields := map[string][]string{
		"capacity":   {"6"},
		"usage_unit": {"DAY"},
		"unit_price": {"90000"},
		"is_operate": {"false"},
	}
	body, ct := multipartBody(t, fields, map[string][]byte{"b.jpg": []byte("jpg")})
	w := do(engine, http.MethodPut, "/api/v1/spaces/abc", body, ct, token(t, "vendor-1"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "vendor-1", service.callerId)
	assert.Equal(t, 6, service.updated.Capacity)
	assert.Equal(t, spaces.UsageUnit("DAY"), service.updated.UsageUnit)
	assert.False(t, service.updated.IsOperate)
	assert.Len(t, service.images, 1)
}

func TestUpdateDefaultsToOperating(t *testing.T) {
	service := &fakeService{}
	engine := newEngine(t, service)

	fields := map[string][]string{
		"capacity":   {"6"},
		"usage_unit": {"DAY"},
		"unit_price": {"90000"},
	}
	body, ct := multipartBody(t, fields, map[string][]byte{"b.jpg": []byte("jpg")})
	w := do(engine, http.MethodPut, "/api/v1/spaces/abc", body, ct, token(t, "vendor-1"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, service.updated.IsOperate)
}

func TestUpdateForbidden(t *testing.T) {
	engine := newEngine(t, &fakeService{err: spaces.ErrForbidden})

	fields := map[string][]string{
		"capacity":   {"6"},
		"usage_unit": {"DAY"},
		"unit_price": {"90000"},
	}
	body, ct := multipartBody(t, fields, map[string][]byte{"b.jpg": []byte("jpg")})
	w := do(engine, http.MethodPut, "/api/v1/spaces/abc", body, ct, token(t, "vendor-2"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDelete(t *testing.T) {
	service := &fakeService{}
	engine := newEngine(t, service)

	w := do(engine, http.MethodDelete, "/api/v1/spaces/abc", nil, "", token(t, "vendor-1"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", service.deleted)
	assert.Equal(t, "vendor-1", service.callerId)
}

func TestQuote(t *testing.T) {
	service := &fakeService{}
	engine := newEngine(t, service)

	body := bytes.NewBufferString(`{"space_id":"abc","use_date":"2024-05-01","start_time":"10:00:00","end_time":"13:00:00"}`)
	w := do(engine, http.MethodPost, "/api/v1/spaces/pre-order", body, "application/json", token(t, "vendor-1"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"space_name":"Studio","total_amount":45000,"quantity":3}`, w.Body.String())
	assert.Equal(t, "10:00:00", service.quoteRequest.StartTime)

	body = bytes.NewBufferString(`{"use_date":"2024-05-01"}`)
	w = do(engine, http.MethodPost, "/api/v1/spaces/pre-order", body, "application/json", token(t, "vendor-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
