package user

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cinezone/cinezone/internal/shared/authorization"
)

const (
	minNameLength = 2
	maxNameLength = 50
)

// User is an account holder. The password hash never leaves the domain and
// application layers.
type User struct {
	id           uint
	email        string
	passwordHash string
	firstName    string
	lastName     string
	role         authorization.UserRole
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email, passwordHash, firstName, lastName string, role authorization.UserRole) (*User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	first, err := normalizeName("first name", firstName)
	if err != nil {
		return nil, err
	}
	last, err := normalizeName("last name", lastName)
	if err != nil {
		return nil, err
	}
	if !role.IsValid() {
		role = authorization.RoleUser
	}

	now := time.Now().UTC()
	return &User{
		email:        normalized,
		passwordHash: passwordHash,
		firstName:    first,
		lastName:     last,
		role:         role,
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructUser rebuilds a User from storage without re-validating.
func ReconstructUser(
	id uint,
	email, passwordHash, firstName, lastName string,
	role authorization.UserRole,
	isActive bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		firstName:    firstName,
		lastName:     lastName,
		role:         authorization.ParseUserRole(string(role)),
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func normalizeName(label, value string) (string, error) {
	v := strings.TrimSpace(value)
	n := utf8.RuneCountInString(v)
	if n < minNameLength {
		return "", fmt.Errorf("%s must be at least %d characters long", label, minNameLength)
	}
	if n > maxNameLength {
		return "", fmt.Errorf("%s cannot exceed %d characters", label, maxNameLength)
	}
	return v, nil
}

func (u *User) ID() uint                     { return u.id }
func (u *User) Email() string                { return u.email }
func (u *User) PasswordHash() string         { return u.passwordHash }
func (u *User) FirstName() string            { return u.firstName }
func (u *User) LastName() string             { return u.lastName }
func (u *User) Role() authorization.UserRole { return u.role }
func (u *User) IsActive() bool               { return u.isActive }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// UpdateProfile changes only the non-nil fields.
func (u *User) UpdateProfile(firstName, lastName, email *string) error {
	first, last, mail := u.firstName, u.lastName, u.email
	var err error
	if firstName != nil {
		if first, err = normalizeName("first name", *firstName); err != nil {
			return err
		}
	}
	if lastName != nil {
		if last, err = normalizeName("last name", *lastName); err != nil {
			return err
		}
	}
	if email != nil {
		if mail, err = NormalizeEmail(*email); err != nil {
			return err
		}
	}

	u.firstName, u.lastName, u.email = first, last, mail
	u.updatedAt = time.Now().UTC()
	return nil
}

func (u *User) ChangePasswordHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("password hash is required")
	}
	u.passwordHash = hash
	u.updatedAt = time.Now().UTC()
	return nil
}

func (u *User) Deactivate() {
	u.isActive = false
	u.updatedAt = time.Now().UTC()
}
