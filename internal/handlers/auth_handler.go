package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/models"
	"mykhata/internal/services"
	"mykhata/internal/session"
)

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	userService services.UserServicer
	sessions    *session.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{userService: userService, sessions: sessions}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Username       string `json:"username" binding:"required,max=64"`
	Password       string `json:"password" binding:"required,max=128"`
	Name           string `json:"name" binding:"max=100"`
	Mobile         string `json:"mobile" binding:"omitempty,max=20"`
	Email          string `json:"email" binding:"omitempty,email,max=255"`
	ParentUsername string `json:"parent_username" binding:"max=64"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	Username       string      `json:"username"`
	Name           string      `json:"name,omitempty"`
	Mobile         string      `json:"mobile,omitempty"`
	Email          string      `json:"email,omitempty"`
	Role           models.Role `json:"role"`
	ParentUsername string      `json:"parent_username,omitempty"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		Username:       u.Username,
		Name:           u.Name,
		Mobile:         u.Mobile,
		Email:          u.Email,
		Role:           u.Role,
		ParentUsername: u.ParentUsername,
	}
}

// Signup handles user registration
// @Summary     Sign up
// @Description Register a new user. The username must start with an uppercase letter and contain only letters and digits; the password must start with an uppercase letter and contain a symbol.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignupRequest true "Signup data"
// @Success     201 {object} AuthResponse "User registered and logged in"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Username already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(services.SignupInput{
		Username:       req.Username,
		Password:       req.Password,
		Name:           req.Name,
		Mobile:         req.Mobile,
		Email:          req.Email,
		ParentUsername: req.ParentUsername,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// Login handles user login
// @Summary     Log in
// @Description Authenticate with username and password and get a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.FindUser(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

// Logout ends the current session
// @Summary     Log out
// @Description Revoke the session token used for this request
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Logged out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.sessions.Revoke(sess)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUser(sess.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, sess, err := h.sessions.Issue(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(status, AuthResponse{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		User:      toUserResponse(user),
	})
}
