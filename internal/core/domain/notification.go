package domain

import (
	"errors"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Notification struct {
	ID         string
	UserID     string
	Message    string
	IsRead     bool
	ActionText string
	ActionURL  string
	CreatedAt  time.Time
}
