package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kanba/internal/middleware"
	"kanba/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, sessionID, userID uuid.UUID) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

func (m *MockSessionRepository) Resolve(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) Exists(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func setupRouter(sessions *MockSessionRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/protected")
	protected.Use(middleware.SessionAuth(sessions))

	protected.GET("/resource", func(c *gin.Context) {
		userID, ok := middleware.AuthenticatedUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Access granted",
			"user_id": userID,
		})
	})

	return r
}

func TestSessionAuth_ValidSession(t *testing.T) {
	// Arrange
	sessions := new(MockSessionRepository)
	router := setupRouter(sessions)

	sessionID := uuid.New()
	userID := uuid.New()
	sessions.On("Exists", mock.Anything, sessionID).Return(true, nil)
	sessions.On("Resolve", mock.Anything, sessionID).Return(&model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sessionID.String()})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), userID.String())
	sessions.AssertExpectations(t)
}

func TestSessionAuth_MissingCookie(t *testing.T) {
	// Arrange
	sessions := new(MockSessionRepository)
	router := setupRouter(sessions)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Unauthorized")
	sessions.AssertNotCalled(t, "Exists")
}

func TestSessionAuth_MalformedToken(t *testing.T) {
	// Arrange
	sessions := new(MockSessionRepository)
	router := setupRouter(sessions)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "not-a-uuid"})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	sessions.AssertNotCalled(t, "Exists")
}

func TestSessionAuth_UnknownOrExpiredSession(t *testing.T) {
	// Arrange
	sessions := new(MockSessionRepository)
	router := setupRouter(sessions)

	sessionID := uuid.New()
	sessions.On("Exists", mock.Anything, sessionID).Return(false, nil)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sessionID.String()})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Unauthorized")
	sessions.AssertExpectations(t)
}

func TestSessionAuth_StoreFailure(t *testing.T) {
	// Arrange
	sessions := new(MockSessionRepository)
	router := setupRouter(sessions)

	sessionID := uuid.New()
	sessions.On("Exists", mock.Anything, sessionID).Return(false, assert.AnError)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sessionID.String()})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authentication failed")
	sessions.AssertExpectations(t)
}
