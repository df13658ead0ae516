package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taskstack/todo-api/internal/middleware"
	"github.com/taskstack/todo-api/internal/models"
	"github.com/taskstack/todo-api/internal/repository"
	"github.com/taskstack/todo-api/internal/services"
)

const testSecret = "handler-test-secret-long-enough-00"

// testAPI wires the full router the way cmd/server does, backed by an
// in-memory database.
type testAPI struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	authService := services.NewAuthService(repository.NewUserRepository(db), testSecret, 24*time.Hour)
	taskService := services.NewTaskService(repository.NewTaskRepository(db))

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)

	r := gin.New()
	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", middleware.RequireAuth(authService), authHandler.Logout)
	auth.GET("/me", middleware.RequireAuth(authService), authHandler.Me)

	tasks := api.Group("/tasks")
	tasks.Use(middleware.RequireAuth(authService))
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.POST("/:id/toggle", taskHandler.Toggle)

	return &testAPI{
		db:          db,
		router:      r,
		authService: authService,
	}
}

// request performs an HTTP request against the test router. A non-empty
// token is sent as a bearer credential.
func (a *testAPI) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account and returns a valid bearer token.
func (a *testAPI) registerAndLogin(t *testing.T, email, username, password string) string {
	t.Helper()

	w := a.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	return resp.AccessToken
}
