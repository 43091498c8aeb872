package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rollcall/internal/domain"
	"rollcall/internal/session"
)

// devProvider is a local stand-in for an external identity provider: it
// mints an HS256 token from the shared dev secret and reports the result
// through the session event channel.
type devProvider struct {
	secret  string
	expires time.Duration
	events  chan session.Event

	// sink receives the minted token before the signed_in event is
	// emitted, so the profile lookup the event triggers is already
	// authenticated. The channel send orders the write.
	sink func(token string)

	// last successful sign-in, for saving the token after authentication.
	token string
}

func newDevProvider(secret string, expires time.Duration, sink func(token string)) *devProvider {
	return &devProvider{
		secret:  secret,
		expires: expires,
		events:  make(chan session.Event, 4),
		sink:    sink,
	}
}

func (p *devProvider) SubmitCredentials(_ context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("email and password are required")
	}

	// The dev provider accepts any password; a real deployment would use
	// the OIDC issuer instead.
	identity := strings.TrimSpace(email)
	token, err := mintToken(identity, identity, p.secret, p.expires)
	if err != nil {
		return err
	}
	p.token = token
	if p.sink != nil {
		p.sink(token)
	}
	p.events <- session.Event{
		Type:     session.EventSignedIn,
		Identity: &domain.Identity{ID: identity, Email: identity},
	}
	return nil
}

func (p *devProvider) PopupSignIn(context.Context) error {
	return errors.New("interactive popup sign-in is not available from the CLI")
}

func (p *devProvider) SignOut(context.Context) error {
	p.events <- session.Event{Type: session.EventSignedOut}
	return nil
}

func (p *devProvider) Events() <-chan session.Event { return p.events }

// restStore reads and writes identity profiles through the server API, so
// the sign-in flow and role selection run against live data.
type restStore struct {
	client *Client
}

type profilePayload struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

func (s *restStore) Get(_ context.Context, identityID string) (*domain.IdentityProfile, error) {
	var p profilePayload
	err := s.client.DoJSON(http.MethodGet, "/profiles/"+identityID, nil, nil, &p)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusNotFound {
			return nil, domain.ErrNotFound("profile %s not found", identityID)
		}
		return nil, domain.ErrUnavailable(err, "fetch profile %s", identityID)
	}
	return &domain.IdentityProfile{
		IdentityID: p.IdentityID,
		Email:      p.Email,
		Role:       domain.Role(p.Role),
	}, nil
}

func (s *restStore) Register(_ context.Context, identityID, email, role string) (*domain.IdentityProfile, error) {
	var p profilePayload
	err := s.client.DoJSON(http.MethodPost, "/profiles", nil,
		profilePayload{IdentityID: identityID, Email: email, Role: role}, &p)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			switch apiErr.HTTPStatus {
			case http.StatusBadRequest:
				return nil, domain.ErrValidation("%s", apiErr.Message)
			case http.StatusConflict:
				return nil, domain.ErrConflict("%s", apiErr.Message)
			}
		}
		return nil, domain.ErrUnavailable(err, "register profile %s", identityID)
	}
	return &domain.IdentityProfile{
		IdentityID: p.IdentityID,
		Email:      p.Email,
		Role:       domain.Role(p.Role),
	}, nil
}

func newLoginCmd(client *Client) *cobra.Command {
	var (
		email   string
		secret  string
		expires time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and resolve your role",
		Long: "Sign in with the dev identity provider, resolve your role against " +
			"the server, and save the resulting token to the active profile. " +
			"First-time identities are prompted to choose a role.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if email == "" {
				fmt.Fprint(os.Stderr, "Email: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}

			fmt.Fprint(os.Stderr, "Password: ")
			password, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			provider := newDevProvider(secret, expires, func(token string) {
				client.Token = token
			})
			machine := session.NewMachine(provider, &restStore{client: client}, nil, nil)

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			done := make(chan struct{})
			go func() {
				defer close(done)
				_ = machine.Run(runCtx)
			}()

			if err := machine.SubmitCredentials(ctx, email, string(password)); err != nil {
				return err
			}

			snap, err := waitForResting(machine, 10*time.Second)
			if err != nil {
				return err
			}

			if snap.State == session.StateAwaitingRole {
				role, err := promptRole()
				if err != nil {
					return err
				}
				if err := machine.SelectRole(ctx, role); err != nil {
					return err
				}
				snap = machine.Snapshot()
			}

			if snap.State != session.StateAuthenticated {
				if snap.Err != "" {
					return fmt.Errorf("sign-in did not complete: %s", snap.Err)
				}
				return fmt.Errorf("sign-in did not complete (state %s)", snap.State)
			}

			if err := saveTokenToProfile(provider.token); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Signed in as %s (%s)\n", snap.Identity.Email, snap.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email to sign in with (prompted when omitted)")
	cmd.Flags().StringVar(&secret, "secret", "", "Dev JWT signing secret, must match the server's JWT_SECRET")
	cmd.Flags().DurationVar(&expires, "expires", 24*time.Hour, "Token expiry duration")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

// waitForResting polls until the machine leaves loading.
func waitForResting(machine *session.Machine, timeout time.Duration) (session.Snapshot, error) {
	deadline := time.Now().Add(timeout)
	for {
		snap := machine.Snapshot()
		if snap.State != session.StateLoading {
			return snap, nil
		}
		if time.Now().After(deadline) {
			return snap, errors.New("timed out waiting for the identity provider")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func promptRole() (string, error) {
	fmt.Fprint(os.Stderr, "Choose a role (student/faculty/corporate): ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
