package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mintrail/mintrail/application/port/inbound"
	"github.com/mintrail/mintrail/domain/entity"
	apperror "github.com/mintrail/mintrail/domain/error"
	"github.com/mintrail/mintrail/infrastructure/http/middleware"
	jwtservice "github.com/mintrail/mintrail/infrastructure/service/jwt"
)

type MockHistoryUseCase struct {
	mock.Mock
}

func (m *MockHistoryUseCase) List(ctx context.Context, session inbound.Session, req inbound.RangeRequest) ([]*entity.DistributionEvent, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.DistributionEvent), args.Error(1)
}

func (m *MockHistoryUseCase) Record(ctx context.Context, session inbound.Session, req inbound.RecordRequest) (*entity.DistributionEvent, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DistributionEvent), args.Error(1)
}

func (m *MockHistoryUseCase) Export(ctx context.Context, session inbound.Session, req inbound.RangeRequest) (*inbound.ExportArtifact, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.ExportArtifact), args.Error(1)
}

const handlerTestSecret = "handler-test-secret"

func newAuthMiddleware(t *testing.T) *middleware.AuthMiddleware {
	t.Helper()
	tokenService, err := jwtservice.NewJWTService(handlerTestSecret, "HS256")
	assert.NoError(t, err)
	return middleware.NewAuthMiddleware(tokenService)
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(handlerTestSecret))
	assert.NoError(t, err)
	return "Bearer " + signed
}

func newHistoryRouter(t *testing.T) (*mux.Router, *MockHistoryUseCase) {
	uc := new(MockHistoryUseCase)
	h := NewHistoryHandler(uc, newAuthMiddleware(t))
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router, uc
}

func TestHistoryHandler_List_RequiresAuth(t *testing.T) {
	router, _ := newHistoryRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHistoryHandler_List_RejectsInvalidToken(t *testing.T) {
	router, _ := newHistoryRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHistoryHandler_List_Success(t *testing.T) {
	router, uc := newHistoryRouter(t)

	session := inbound.Session{UserID: "user-1", Email: "user@example.com"}
	uc.On("List", mock.Anything, session, inbound.RangeRequest{Start: "2024-06-01", End: "2024-06-30"}).
		Return([]*entity.DistributionEvent{{ID: "evt-1"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/history?start=2024-06-01&end=2024-06-30", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Status bool                        `json:"status"`
		Data   []*entity.DistributionEvent `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Status)
	assert.Len(t, envelope.Data, 1)
}

func TestHistoryHandler_List_InvalidRangeMapsTo400(t *testing.T) {
	router, uc := newHistoryRouter(t)

	uc.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.ErrInvalidRange("start", "06/01/2024"))

	req := httptest.NewRequest(http.MethodGet, "/v1/history?start=06%2F01%2F2024", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryHandler_Record_Success(t *testing.T) {
	router, uc := newHistoryRouter(t)

	uc.On("Record", mock.Anything, mock.Anything, inbound.RecordRequest{
		Type:             "SEND",
		RecipientAddress: "0xRECIPIENT",
		Amount:           1,
		TokenIDs:         "5",
		TxHash:           "0xext",
	}).Return(&entity.DistributionEvent{ID: "evt-1"}, nil)

	body := `{"type":"SEND","recipient_address":"0xRECIPIENT","amount":1,"token_ids":"5","tx_hash":"0xext"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/history", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHistoryHandler_Record_InvalidBody(t *testing.T) {
	router, _ := newHistoryRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/history", strings.NewReader("{not json"))
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryHandler_Export_CSVDownloadHeaders(t *testing.T) {
	router, uc := newHistoryRouter(t)

	uc.On("Export", mock.Anything, mock.Anything, inbound.RangeRequest{Start: "2024-06-01", End: "2024-06-30"}).
		Return(&inbound.ExportArtifact{
			Filename: "nft_history_2024-06-01_to_2024-06-30.csv",
			Content:  []byte("Timestamp,Type\r\n"),
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/history/export?start=2024-06-01&end=2024-06-30", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="nft_history_2024-06-01_to_2024-06-30.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Timestamp,Type\r\n", rec.Body.String())
}

func TestHistoryHandler_Export_StoreReadFailureMapsTo500(t *testing.T) {
	router, uc := newHistoryRouter(t)

	uc.On("Export", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.ErrStoreReadFailed("history list", assert.AnError))

	req := httptest.NewRequest(http.MethodGet, "/v1/history/export", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
