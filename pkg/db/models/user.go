package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orcalabs/orcamentos-backend/pkg/enums"
)

// User is a console account: either a super user or a seller.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	Phone        string         `gorm:"column:phone;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;type:user_role;not null;default:'SELLER'"`
	Enabled      bool           `gorm:"column:enabled;not null;default:true"`
	// MustChangePassword is set when the account carries a generated
	// temporary password (registration and admin resets).
	MustChangePassword bool       `gorm:"column:must_change_password;not null;default:false"`
	LastLoginAt        *time.Time `gorm:"column:last_login_at"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
