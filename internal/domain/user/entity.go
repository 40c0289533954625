package user

import (
	"time"

	"github.com/google/uuid"
)

// User entity. Suppliers post deals and hold advertising credits; buyers
// generate coupons and register keyword subscriptions.
type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	role         Role
	companyName  *string
	lastLogin    *time.Time
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email Email, passwordHash string, role Role, companyName *string) (*User, error) {
	if role == RoleSupplier && (companyName == nil || *companyName == "") {
		return nil, ErrEmptyCompany
	}

	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		companyName:  companyName,
		isActive:     true,
	}, nil
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Role() Role            { return u.role }
func (u *User) CompanyName() *string  { return u.companyName }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) IsActive() bool        { return u.isActive }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
