package entity

type User struct {
	ID            int    `gorm:"primaryKey"`
	SubUUID       string `gorm:"not null;uniqueIndex"` // Subject id issued by the identity provider
	Username      string `gorm:"not null"`
	Email         string `gorm:"not null;uniqueIndex"`
	PasswordHash  string // Only set when the local identity provider manages credentials
	EmailVerified bool   `gorm:"not null"`
	IsAdmin       bool   `gorm:"not null"`
	CreatedAt     int64  `gorm:"not null"`
	UpdatedAt     int64  `gorm:"not null"`
}
