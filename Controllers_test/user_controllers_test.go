package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/controllers"
	"github.com/elbuensabor/restaurante-api/middlewares"
)

func setupUserRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	userCtrl := controllers.NewUserController(db)
	router.POST("/auth/register", userCtrl.Register)
	router.POST("/auth/login", userCtrl.Login)
	router.GET("/auth/profile", middlewares.AuthMiddleware(), userCtrl.GetProfile)
	return router
}

func TestRegisterLoginProfile(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)

	register := map[string]interface{}{
		"nombre":   "Ana Garcia",
		"email":    "ana@elbuensabor.cl",
		"password": "contrasena-larga",
		"role":     "mesero",
	}
	body, _ := json.Marshal(register)
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Duplicate email is refused.
	req, _ = http.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	login := map[string]string{"email": "ana@elbuensabor.cl", "password": "contrasena-larga"}
	body, _ = json.Marshal(login)
	req, _ = http.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp struct {
		Data struct {
			Token    string `json:"token"`
			UserRole string `json:"user_role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Data.Token)
	assert.Equal(t, "mesero", loginResp.Data.UserRole)

	req, _ = http.NewRequest("GET", "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Data.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var profileResp struct {
		Data struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profileResp))
	assert.Equal(t, "ana@elbuensabor.cl", profileResp.Data.Email)
	assert.Equal(t, "mesero", profileResp.Data.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)

	body, _ := json.Marshal(map[string]interface{}{
		"nombre":   "Ana Garcia",
		"email":    "ana@elbuensabor.cl",
		"password": "contrasena-larga",
		"role":     "mesero",
	})
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	for _, login := range []map[string]string{
		{"email": "ana@elbuensabor.cl", "password": "equivocada"},
		{"email": "nadie@elbuensabor.cl", "password": "contrasena-larga"},
	} {
		body, _ = json.Marshal(login)
		req, _ = http.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)

	// Short password and malformed email are both 400s.
	for _, payload := range []map[string]interface{}{
		{"nombre": "X", "email": "x@x.cl", "password": "corta", "role": "mesero"},
		{"nombre": "X", "email": "no-es-email", "password": "contrasena-larga", "role": "mesero"},
	} {
		body, _ := json.Marshal(payload)
		req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}
