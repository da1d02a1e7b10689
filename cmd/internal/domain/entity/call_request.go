package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// CallStatus is the lifecycle state of a CallRequest. It is a closed set:
// anything outside these four values never reaches the database.
type CallStatus string

const (
	CallStatusPending  CallStatus = "pending"
	CallStatusProposed CallStatus = "proposed"
	CallStatusAccepted CallStatus = "accepted"
	CallStatusDeclined CallStatus = "declined"
)

// Active reports whether the request can still transition.
func (s CallStatus) Active() bool {
	return s == CallStatusPending || s == CallStatusProposed
}

func (s CallStatus) Valid() bool {
	switch s {
	case CallStatusPending, CallStatusProposed, CallStatusAccepted, CallStatusDeclined:
		return true
	}
	return false
}

// TimeSlice stores an ordered list of epoch-millis instants as a JSON
// column (SQLite has no array type).
type TimeSlice []int64

func (t TimeSlice) Value() (driver.Value, error) {
	if t == nil {
		t = TimeSlice{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TimeSlice) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), t)
	case []byte:
		return json.Unmarshal(v, t)
	}
	return errors.New("time slice: unsupported column type")
}

// Contains reports whether the given instant is one of the stored slots.
func (t TimeSlice) Contains(millis int64) bool {
	for _, v := range t {
		if v == millis {
			return true
		}
	}
	return false
}

type CallRequest struct {
	ID            int        `gorm:"primaryKey"`
	RequesterID   int        `gorm:"not null"` // References: users(id)
	RecipientID   int        `gorm:"not null"` // References: users(id)
	Message       *string
	Status        CallStatus `gorm:"not null;default:pending"`
	ProposedTimes TimeSlice  `gorm:"not null"`
	SelectedSlot  *int64     // Set exactly when Status is accepted
	CreatedAt     int64      `gorm:"not null"`
	UpdatedAt     int64      `gorm:"not null"`

	// Relations
	Requester User `gorm:"foreignKey:RequesterID;references:ID"`
	Recipient User `gorm:"foreignKey:RecipientID;references:ID"`
}

// Participant reports whether the given user takes part in the request.
func (r *CallRequest) Participant(userID int) bool {
	return r.RequesterID == userID || r.RecipientID == userID
}
