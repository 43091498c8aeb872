package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication helpers",
	}

	cmd.AddCommand(newAuthTokenCmd())
	return cmd
}

func newAuthTokenCmd() *cobra.Command {
	var (
		identity string
		email    string
		secret   string
		expires  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a dev-mode JWT token and save it to the active profile",
		Long:  "Generate an HS256 JWT token for development and testing. The token is saved to the active profile automatically.",
		Example: `  # Generate a token for an identity with the server's JWT_SECRET
  rollcall auth token --identity u1 --email u1@example.com --secret mysecret

  # Custom expiry
  rollcall auth token --identity u1 --secret mysecret --expires 48h`,
		RunE: func(_ *cobra.Command, _ []string) error {
			signed, err := mintToken(identity, email, secret, expires)
			if err != nil {
				return err
			}

			if err := saveTokenToProfile(signed); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			_, _ = fmt.Fprintln(os.Stdout, signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Identity ID (JWT sub claim)")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret (HS256)")
	cmd.Flags().DurationVar(&expires, "expires", 24*time.Hour, "Token expiry duration")
	_ = cmd.MarkFlagRequired("identity")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

func mintToken(identity, email, secret string, expires time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": identity,
		"iat": now.Unix(),
		"exp": now.Add(expires).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
