package entity

// AppSettings is a single-row table holding household-wide settings.
type AppSettings struct {
	ID        int   `gorm:"primaryKey"`
	ReunionAt int64 `gorm:"not null"` // Countdown target, epoch millis
	UpdatedAt int64 `gorm:"not null"`
}
