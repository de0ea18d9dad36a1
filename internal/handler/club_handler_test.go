package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/club-hub-api/internal/models"
	"github.com/noah-isme/club-hub-api/internal/service"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
)

type clubServiceMock struct {
	listResp   []models.Club
	listErr    error
	getResp    *models.ClubDetail
	getErr     error
	createResp *models.Club
	createErr  error
	updateResp *models.Club
	updateErr  error
	deleteErr  error

	lastFilter  models.ClubFilter
	lastID      int64
	lastCreate  service.CreateClubRequest
	createCalls int
}

func (m *clubServiceMock) List(ctx context.Context, filter models.ClubFilter) ([]models.Club, *models.Pagination, error) {
	m.lastFilter = filter
	return m.listResp, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(m.listResp)}, m.listErr
}

func (m *clubServiceMock) Get(ctx context.Context, id int64) (*models.ClubDetail, error) {
	m.lastID = id
	return m.getResp, m.getErr
}

func (m *clubServiceMock) Create(ctx context.Context, req service.CreateClubRequest) (*models.Club, error) {
	m.createCalls++
	m.lastCreate = req
	return m.createResp, m.createErr
}

func (m *clubServiceMock) Update(ctx context.Context, id int64, req service.UpdateClubRequest) (*models.Club, error) {
	m.lastID = id
	return m.updateResp, m.updateErr
}

func (m *clubServiceMock) Delete(ctx context.Context, id int64) error {
	m.lastID = id
	return m.deleteErr
}

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req, _ := http.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func TestClubHandlerList(t *testing.T) {
	svc := &clubServiceMock{listResp: []models.Club{{ClubID: 1, Name: "Chess Club"}}}
	handler := NewClubHandler(svc)

	c, w := newTestContext(http.MethodGet, "/clubs?category=Arts&page=2&page_size=5", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Arts", svc.lastFilter.Category)
	assert.Equal(t, 2, svc.lastFilter.Page)
	assert.Equal(t, 5, svc.lastFilter.PageSize)
	payload := decodeEnvelope(t, w)
	assert.NotNil(t, payload["pagination"])
	assert.Len(t, payload["data"], 1)
}

func TestClubHandlerGetInvalidID(t *testing.T) {
	handler := NewClubHandler(&clubServiceMock{})

	c, w := newTestContext(http.MethodGet, "/clubs/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	handler.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClubHandlerGetNotFound(t *testing.T) {
	svc := &clubServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "club not found")}
	handler := NewClubHandler(svc)

	c, w := newTestContext(http.MethodGet, "/clubs/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(9), svc.lastID)
}

func TestClubHandlerCreate(t *testing.T) {
	svc := &clubServiceMock{createResp: &models.Club{ClubID: 11, Name: "Debate Club"}}
	handler := NewClubHandler(svc)

	body := []byte(`{"club_name":"Debate Club","category":"Academic","capacity":25}`)
	c, w := newTestContext(http.MethodPost, "/clubs", body)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Debate Club", svc.lastCreate.Name)
	assert.Equal(t, 25, svc.lastCreate.Capacity)
}

func TestClubHandlerCreateInvalidBody(t *testing.T) {
	svc := &clubServiceMock{}
	handler := NewClubHandler(svc)

	c, w := newTestContext(http.MethodPost, "/clubs", []byte(`{"club_name":`))
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.createCalls)
}

func TestClubHandlerCreateConflict(t *testing.T) {
	svc := &clubServiceMock{createErr: appErrors.Clone(appErrors.ErrConflict, "club name already exists")}
	handler := NewClubHandler(svc)

	c, w := newTestContext(http.MethodPost, "/clubs", []byte(`{"club_name":"Chess Club","category":"Academic","capacity":30}`))
	handler.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	payload := decodeEnvelope(t, w)
	errPayload, ok := payload["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrConflict.Code, errPayload["code"])
}

func TestClubHandlerUpdate(t *testing.T) {
	svc := &clubServiceMock{updateResp: &models.Club{ClubID: 3, Name: "Drama Club"}}
	handler := NewClubHandler(svc)

	c, w := newTestContext(http.MethodPut, "/clubs/3", []byte(`{"club_name":"Drama Club","category":"Arts","capacity":40}`))
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	handler.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), svc.lastID)
}

func TestClubHandlerDelete(t *testing.T) {
	svc := &clubServiceMock{}
	handler := NewClubHandler(svc)

	c, w := newTestContext(http.MethodDelete, "/clubs/4", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(4), svc.lastID)
}

func TestClubHandlerDeleteWithMembers(t *testing.T) {
	svc := &clubServiceMock{deleteErr: appErrors.Clone(appErrors.ErrConflict, "club still has members")}
	handler := NewClubHandler(svc)

	c, w := newTestContext(http.MethodDelete, "/clubs/4", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	handler.Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func paramID(value string) gin.Param {
	return gin.Param{Key: "id", Value: value}
}
