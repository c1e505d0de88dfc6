package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/http/middleware"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/store"
	apperrors "github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/pkg/errors"
)

type AuthHandler struct {
	Store     *store.Store
	JWTSecret string
	Logger    *slog.Logger
}

type registerReq struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	u := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.Store.CreateUser(c.Request.Context(), &u); err != nil {
		fail(c, h.Logger, err)
		return
	}

	token, err := h.issueToken(u.ID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  u.Public(),
		"token": token,
	})
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := h.Store.UserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// Same message whether the email or the password is wrong.
		fail(c, h.Logger, apperrors.ErrInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		fail(c, h.Logger, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := h.issueToken(u.ID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  u.Public(),
		"token": token,
	})
}

func (h *AuthHandler) issueToken(userID uint) (string, error) {
	claims := middleware.AuthClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}
