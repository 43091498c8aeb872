package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"rollcall/internal/domain"
)

// State is a machine state. loading is transient; the other three are
// resting states the machine stays in absent further events.
type State string

const (
	StateLoading         State = "loading"
	StateUnauthenticated State = "unauthenticated"
	StateAwaitingRole    State = "awaiting_role_selection"
	StateAuthenticated   State = "authenticated"
)

// ErrActionPending is returned when an action is requested while another
// action or provider round-trip is still in flight. Callers should disable
// the triggering control while the machine reports loading.
var ErrActionPending = errors.New("another action is in flight")

// Snapshot is the externally visible machine state. Err holds the last
// error message attached to the current resting state, empty when the last
// transition succeeded.
type Snapshot struct {
	State    State
	Identity *domain.Identity
	Role     domain.Role
	Err      string
}

// Machine consumes identity provider events and profile lookups to drive
// one client session. All event handling happens on the single Run
// goroutine; actions are serialized by a busy flag so at most one is in
// flight at a time.
type Machine struct {
	provider IdentityProvider
	profiles ProfileStore
	logger   *slog.Logger

	mu     sync.Mutex
	snap   Snapshot
	busy   bool
	notify func(Snapshot)

	// resting is the last resting state, restored when an in-flight action
	// fails through an error event instead of completing.
	resting Snapshot
}

// NewMachine creates a machine in the loading state. notify, if non-nil,
// is invoked after every transition with the new snapshot; it must not
// call back into the machine.
func NewMachine(provider IdentityProvider, profiles ProfileStore, logger *slog.Logger, notify func(Snapshot)) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		provider: provider,
		profiles: profiles,
		logger:   logger,
		snap:     Snapshot{State: StateLoading},
		resting:  Snapshot{State: StateUnauthenticated},
		notify:   notify,
	}
}

// Snapshot returns the current machine state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Run consumes provider events until ctx is cancelled or the provider
// closes its event channel. The machine stays in loading until the first
// event arrives; there is no bound on how long that takes.
func (m *Machine) Run(ctx context.Context) error {
	events := m.provider.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			m.handleEvent(ctx, ev)
		}
	}
}

func (m *Machine) handleEvent(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventSignedOut:
		m.logger.Debug("provider reported sign-out")
		m.transition(Snapshot{State: StateUnauthenticated})

	case EventSignedIn:
		if ev.Identity == nil {
			m.logger.Warn("signed_in event without identity")
			m.transition(Snapshot{State: StateUnauthenticated, Err: "provider sent an incomplete sign-in"})
			return
		}
		m.resolveRole(ctx, *ev.Identity)

	case EventError:
		m.logger.Debug("provider reported error", "message", ev.Message)
		m.attachError(ev.Message)
	}
}

// resolveRole decides between authenticated and awaiting_role_selection
// for a freshly signed-in identity.
func (m *Machine) resolveRole(ctx context.Context, id domain.Identity) {
	profile, err := m.profiles.Get(ctx, id.ID)
	switch {
	case err == nil && profile.Role.Concrete():
		m.transition(Snapshot{State: StateAuthenticated, Identity: &id, Role: profile.Role})
	case err == nil:
		// Profile exists but the role is still unresolved.
		m.transition(Snapshot{State: StateAwaitingRole, Identity: &id})
	default:
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			m.transition(Snapshot{State: StateAwaitingRole, Identity: &id})
			return
		}
		// Store unreachable. The identity is signed in, so keep the
		// session and let a role selection retry the write path.
		m.logger.Warn("profile lookup failed", "identity", id.ID, "error", err)
		m.transition(Snapshot{State: StateAwaitingRole, Identity: &id, Err: err.Error()})
	}
}

// SubmitCredentials asks the provider to sign in with email and password.
// On provider rejection the machine returns to unauthenticated with the
// error retained; on acceptance it stays loading until the signed_in event
// arrives.
func (m *Machine) SubmitCredentials(ctx context.Context, email, password string) error {
	return m.runAction(ctx, func(ctx context.Context) error {
		return m.provider.SubmitCredentials(ctx, email, password)
	})
}

// PopupSignIn asks the provider to run its interactive sign-in flow.
func (m *Machine) PopupSignIn(ctx context.Context) error {
	return m.runAction(ctx, m.provider.PopupSignIn)
}

// SignOut requests a provider sign-out. The transition to unauthenticated
// happens only when the signed_out event arrives, never optimistically.
func (m *Machine) SignOut(ctx context.Context) error {
	return m.runAction(ctx, m.provider.SignOut)
}

// SelectRole resolves the pending identity's role. Only valid from
// awaiting_role_selection; a non-concrete role is rejected locally without
// touching the store.
func (m *Machine) SelectRole(ctx context.Context, role string) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return ErrActionPending
	}
	if m.snap.State != StateAwaitingRole || m.snap.Identity == nil {
		m.mu.Unlock()
		return domain.ErrValidation("no role selection pending")
	}
	id := *m.snap.Identity

	if _, err := domain.ParseRole(role); err != nil {
		m.snap.Err = err.Error()
		m.notifyLocked()
		m.mu.Unlock()
		return err
	}

	prior := m.snap
	m.busy = true
	m.snap = Snapshot{State: StateLoading, Identity: &id}
	m.notifyLocked()
	m.mu.Unlock()

	profile, err := m.profiles.Register(ctx, id.ID, id.Email, role)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		prior.Err = err.Error()
		m.snap = prior
		m.resting = prior
		m.notifyLocked()
		return err
	}
	m.snap = Snapshot{State: StateAuthenticated, Identity: &id, Role: profile.Role}
	m.resting = m.snap
	m.notifyLocked()
	return nil
}

// runAction serializes a provider round-trip: loading while in flight,
// prior resting state restored with the error attached on rejection.
func (m *Machine) runAction(ctx context.Context, fn func(context.Context) error) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return ErrActionPending
	}
	prior := m.snap
	m.busy = true
	m.snap = Snapshot{State: StateLoading, Identity: prior.Identity, Role: prior.Role}
	m.notifyLocked()
	m.mu.Unlock()

	err := fn(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.busy = false
		prior.Err = err.Error()
		m.snap = prior
		m.resting = prior
		m.notifyLocked()
		return domain.ErrProvider("%v", err)
	}
	// Stay loading; the provider's event completes the transition and
	// clears the busy flag.
	return nil
}

// transition installs a new resting state. Called from the Run goroutine
// when a provider event lands.
func (m *Machine) transition(next Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	m.snap = next
	m.resting = next
	m.notifyLocked()
}

// attachError retains a provider error on the current resting state. A
// loading machine returns to its last resting state unchanged; a failed
// sign-out must not leave authenticated until signed_out actually arrives.
func (m *Machine) attachError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if m.snap.State == StateLoading {
		m.snap = m.resting
	}
	m.snap.Err = msg
	m.resting = m.snap
	m.notifyLocked()
}

func (m *Machine) notifyLocked() {
	if m.notify != nil {
		m.notify(m.snap)
	}
}
