package entity

type Event struct {
	ID          int    `gorm:"primaryKey"`
	OwnerID     int    `gorm:"not null"` // References: users(id)
	Title       string `gorm:"not null"`
	Description *string
	StartTime   int64 `gorm:"not null"`
	EndTime     int64 `gorm:"not null"`
	IsShared    bool  `gorm:"not null"`
	// SourceRequestID links an event back to the call request it was
	// materialized from. The unique index is the dedup key that keeps
	// materialization retries from creating a second event.
	SourceRequestID *int  `gorm:"uniqueIndex"`
	CreatedAt       int64 `gorm:"not null"`
	UpdatedAt       int64 `gorm:"not null"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID;references:ID"`
}
