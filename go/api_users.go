package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/go-pos-api-server/internal/domains/users/adapters/http/mapper"
	usersports "github.com/Apurer/go-pos-api-server/internal/domains/users/ports"
)

// UsersAPI wires HTTP transport with the staff accounts bounded context service.
type UsersAPI struct {
	service usersports.Service
}

// NewUsersAPI creates a UsersAPI backed by the provided service.
func NewUsersAPI(service usersports.Service) UsersAPI {
	return UsersAPI{service: service}
}

// Post /api/users
// Create a staff account
func (api *UsersAPI) CreateUser(c *gin.Context) {
	var payload userhttpmapper.CreateUserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := userhttpmapper.ToDomainUser(payload)
	if err != nil {
		respondUserError(c, err)
		return
	}
	saved, err := api.service.CreateUser(c.Request.Context(), user)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(saved))
}

// Post /api/users/login
// Exchange credentials for a session token
func (api *UsersAPI) Login(c *gin.Context) {
	var payload userhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondUserError(c, err)
		return
	}
	user, err := api.service.GetByUsername(c.Request.Context(), payload.Username)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.LoginResponse{Token: token, User: userhttpmapper.FromDomainUser(user)})
}

// Post /api/users/logout
// Invalidate the current session token
func (api *UsersAPI) Logout(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		api.service.Logout(c.Request.Context(), token)
	}
	c.Status(http.StatusNoContent)
}

// Get /api/users/me
// Return the staff account behind the current session
func (api *UsersAPI) CurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(currentUser(c)))
}

// Get /api/users
// List staff accounts
func (api *UsersAPI) ListUsers(c *gin.Context) {
	users, err := api.service.List(c.Request.Context())
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUsers(users))
}

// Get /api/users/:username
// Find a staff account by username
func (api *UsersAPI) GetUser(c *gin.Context) {
	user, err := api.service.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Put /api/users/:username
// Replace a staff account
func (api *UsersAPI) UpdateUser(c *gin.Context) {
	var payload userhttpmapper.CreateUserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := userhttpmapper.ToDomainUser(payload)
	if err != nil {
		respondUserError(c, err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), c.Param("username"), user)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(updated))
}

// Delete /api/users/:username
// Delete a staff account
func (api *UsersAPI) DeleteUser(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("username")); err != nil {
		respondUserError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
