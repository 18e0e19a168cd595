package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// NotificationPreferences toggles which notifications a user receives
type NotificationPreferences struct {
	Email    bool `gorm:"default:true" json:"email"`
	LowStock bool `gorm:"default:true" json:"lowStock"`
	StockOut bool `gorm:"default:true" json:"stockOut"`
}

// Preferences holds dashboard settings for a user
type Preferences struct {
	Theme           string                  `gorm:"type:varchar(10);default:'system'" json:"theme"`
	Notifications   NotificationPreferences `gorm:"embedded;embeddedPrefix:notify_" json:"notifications"`
	DashboardLayout string                  `gorm:"type:varchar(10);default:'default'" json:"dashboardLayout"`
	Language        string                  `gorm:"type:varchar(10);default:'en'" json:"language"`
}

// DefaultPreferences returns the preferences a new account starts with
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:           "system",
		Notifications:   NotificationPreferences{Email: true, LowStock: true, StockOut: true},
		DashboardLayout: "default",
		Language:        "en",
	}
}

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Username    string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email       string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string      `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FirstName   string      `gorm:"type:varchar(100)" json:"firstName,omitempty"`
	LastName    string      `gorm:"type:varchar(100)" json:"lastName,omitempty"`
	Role        Role        `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	Preferences Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	LastLogin   *time.Time  `json:"lastLogin,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName,omitempty"`
	LastName    string      `json:"lastName,omitempty"`
	Role        Role        `json:"role"`
	Preferences Preferences `json:"preferences"`
	LastLogin   *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		Preferences: u.Preferences,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
