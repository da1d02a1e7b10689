package entity

type Letter struct {
	ID          int    `gorm:"primaryKey"`
	SenderID    int    `gorm:"not null"` // References: users(id)
	RecipientID int    `gorm:"not null"` // References: users(id)
	Subject     string `gorm:"not null"`
	Content     string `gorm:"not null"`
	OpenedAt    *int64 // Set the first time the recipient opens the letter
	CreatedAt   int64  `gorm:"not null"`
	UpdatedAt   int64  `gorm:"not null"`

	// Relations
	Sender    User `gorm:"foreignKey:SenderID;references:ID"`
	Recipient User `gorm:"foreignKey:RecipientID;references:ID"`
}
