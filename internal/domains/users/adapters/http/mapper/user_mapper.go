package mapper

import userdomain "github.com/Apurer/go-pos-api-server/internal/domains/users/domain"

// CreateUserRequest is the payload accepted by POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest is the payload accepted by POST /api/users/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the transport representation of a staff account. The
// password hash never leaves the service.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// ToDomainUser converts a create request to its domain counterpart.
func ToDomainUser(req CreateUserRequest) (*userdomain.User, error) {
	user, err := userdomain.NewUser(0, req.Username, req.Password, userdomain.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.FullName, req.Email); err != nil {
		return nil, err
	}
	return user, nil
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     string(user.Role),
		Active:   user.Active,
	}
}

// FromDomainUsers converts a slice of domain users to transport representation.
func FromDomainUsers(users []*userdomain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, FromDomainUser(user))
	}
	return result
}
