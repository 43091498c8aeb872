// Package session drives a client session through sign-in, role
// provisioning and sign-out, reconciling asynchronous identity provider
// events with the stored identity profile.
package session

import (
	"context"

	"rollcall/internal/domain"
)

// EventType classifies an identity provider callback.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
	EventError     EventType = "error"
)

// Event is one asynchronous callback from the identity provider. Identity
// is set for signed_in events; Message carries the provider's user-facing
// error text for error events.
type Event struct {
	Type     EventType
	Identity *domain.Identity
	Message  string
}

// IdentityProvider is the boundary to the external auth system. Action
// calls return an error when the provider rejects the request up front;
// accepted actions complete later through the Events channel. Bad
// credentials or a dismissed popup surface as an action error, a
// successful sign-in as a signed_in event.
type IdentityProvider interface {
	SubmitCredentials(ctx context.Context, email, password string) error
	PopupSignIn(ctx context.Context) error
	SignOut(ctx context.Context) error

	// Events delivers provider callbacks in arrival order. The channel is
	// closed when the provider shuts down.
	Events() <-chan Event
}

// ProfileStore is the slice of the profile service the machine needs.
// Implemented by service.ProfileService and by the REST client.
type ProfileStore interface {
	Get(ctx context.Context, identityID string) (*domain.IdentityProfile, error)
	Register(ctx context.Context, identityID, email, role string) (*domain.IdentityProfile, error)
}
