package models

import "context"

// Navigator moves the user to another page of the application.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// Confirmer asks the user to accept or decline an action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// NoticeLevel is the severity of a user notification.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(ctx context.Context, level NoticeLevel, message string)
}
