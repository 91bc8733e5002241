package domain

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role gates what a staff account may do at the register.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrInvalidRole   = errors.New("role must be admin or cashier")
)

// User is a staff account able to sign in at the register.
type User struct {
	ID           int64
	Username     string
	FullName     string
	Email        string
	Role         Role
	PasswordHash string
	Active       bool
}

// NewUser builds a staff account ensuring required invariants. The password
// is stored only as a bcrypt hash.
func NewUser(id int64, username, password string, role Role) (*User, error) {
	user := &User{ID: id, Active: true}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := user.SetRole(role); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// SetPassword validates basic password strength and stores the bcrypt hash.
func (u *User) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < 6 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// SetRole validates against the fixed role set.
func (u *User) SetRole(role Role) error {
	switch role {
	case RoleAdmin, RoleCashier:
		u.Role = role
		return nil
	default:
		return ErrInvalidRole
	}
}

// UpdateProfile applies optional profile fields and validates email if present.
func (u *User) UpdateProfile(fullName, email string) error {
	u.FullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// CheckPassword compares the stored hash with the supplied credentials.
func (u *User) CheckPassword(password string) bool {
	if strings.TrimSpace(password) == "" || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Deactivate blocks the account from signing in without deleting its history.
func (u *User) Deactivate() {
	u.Active = false
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrEmptyPassword
	}
	if err := u.SetRole(u.Role); err != nil {
		return err
	}
	return u.UpdateProfile(u.FullName, u.Email)
}
