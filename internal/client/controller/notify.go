package controller

import "context"

type NotificationKind string

const (
	KindError   NotificationKind = "error"
	KindSuccess NotificationKind = "success"
	KindInfo    NotificationKind = "info"
)

// Notification is a blocking modal (errors) or a passing toast.
type Notification struct {
	Kind    NotificationKind
	Title   string
	Message string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}
