package entities

import "time"

// User represents a dashboard user. Account provisioning is handled by the
// auth system outside this service; rows here are read for ownership checks
// and speaker resolution only.
type User struct {
	ID        string    `gorm:"type:text;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Image     *string   `gorm:"type:text" json:"image,omitempty"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
