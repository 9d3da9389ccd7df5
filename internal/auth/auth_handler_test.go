package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JerkingFan/Evalyze/internal/auth"
	autherrors "github.com/JerkingFan/Evalyze/internal/auth/errors"
	authMock "github.com/JerkingFan/Evalyze/internal/auth/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	router := setupAuthRouter()
	router.POST("/login", handler.Login)

	t.Run("success sets the access cookie", func(t *testing.T) {
		reqBody := auth.LoginRequest{
			Email:    "owner@acme.com",
			Password: "supersecret",
		}
		body, _ := json.Marshal(reqBody)

		mockService.EXPECT().
			Login(gomock.Any(), reqBody).
			Return(&auth.AuthResponse{
				Token: "access-token",
				Email: reqBody.Email,
				Role:  "COMPANY",
			}, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		assert.Len(t, cookies, 1)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.Equal(t, "access-token", cookies[0].Value)

		var res map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, true, res["ok"])
		assert.Equal(t, reqBody.Email, res["data"].(map[string]any)["email"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mockService.EXPECT().
			Login(gomock.Any(), gomock.Any()).
			Return(nil, autherrors.ErrInvalidCredentials)

		body, _ := json.Marshal(auth.LoginRequest{Email: "owner@acme.com", Password: "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed email never reaches the service", func(t *testing.T) {
		mockService.EXPECT().Login(gomock.Any(), gomock.Any()).Times(0)

		body := []byte(`{"email": "not-an-email", "password": "supersecret"}`)
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	router := setupAuthRouter()
	router.POST("/register", handler.Register)

	t.Run("success", func(t *testing.T) {
		reqData := auth.RegisterRequest{
			CompanyName: "Acme Corp",
			Email:       "owner@acme.com",
			Password:    "supersecret",
			FullName:    "Acme Owner",
		}
		body, _ := json.Marshal(reqData)

		mockService.EXPECT().
			Register(gomock.Any(), reqData).
			Return(&auth.AuthResponse{Token: "access-token", Email: reqData.Email}, nil)

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		mockService.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)

		body := []byte(`{"company_name": "Acme", "email": "owner@acme.com", "password": "short", "full_name": "Owner"}`)
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		reqData := auth.RegisterRequest{
			CompanyName: "Acme Corp",
			Email:       "owner@acme.com",
			Password:    "supersecret",
			FullName:    "Acme Owner",
		}
		body, _ := json.Marshal(reqData)

		mockService.EXPECT().
			Register(gomock.Any(), reqData).
			Return(nil, autherrors.ErrEmailAlreadyExists)

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
