package handlers

import (
	"net/http"
	"strings"
	"time"

	"rent_flow_app_go/config"
	"rent_flow_app_go/db"
	"rent_flow_app_go/middleware"
	"rent_flow_app_go/models"
	"rent_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // renter or owner
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates a new renter or owner account
func RegisterHandler(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and email are required")
	}
	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}
	if req.Role != "renter" && req.Role != "owner" {
		return echo.NewHTTPError(http.StatusBadRequest, "Role must be renter or owner")
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  hash,
		Role:      req.Role,
		IsActive:  true,
		KYCStatus: models.KYCStatusNone,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := db.DB.Create(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusConflict, "Email is already registered")
	}

	return c.JSON(http.StatusCreated, user)
}

// LoginHandler authenticates a user and issues a session cookie
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	var user models.User
	err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil || !services.CheckPassword(req.Password, user.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account is deactivated")
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	now := time.Now()
	db.DB.Model(&user).Update("last_login_at", now)

	secure := false
	if cfg, ok := c.Get("config").(*config.Config); ok {
		secure = cfg.Environment == "production"
	}
	middleware.SetSessionCookie(c, session.Token, secure)

	return c.JSON(http.StatusOK, user)
}

// LogoutHandler deletes the current session
func LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		services.DeleteSession(db.DB, cookie.Value)
	}
	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// GetCurrentUserHandler returns the authenticated user
func GetCurrentUserHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.GetCurrentUser(c))
}
