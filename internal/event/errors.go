package event

import "errors"

// Sentinel errors for the event stream.
var (
	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidSubscription is returned when a subscription is nil or was
	// not created by this stream.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when trying to unsubscribe a
	// subscription that is no longer registered.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
