package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func newRegisterCmd(client *Client) *cobra.Command {
	var (
		identity string
		email    string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a profile role",
		Long:  "Resolve an identity's role. Roles are write-once: registering a different role for an already-resolved identity fails.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p profilePayload
			err := client.DoJSON(http.MethodPost, "/profiles", nil,
				profilePayload{IdentityID: identity, Email: email, Role: role}, &p)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, p)
			}
			fmt.Fprintf(os.Stdout, "Registered %s as %s\n", p.IdentityID, p.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Identity ID (defaults to the token's subject)")
	cmd.Flags().StringVar(&email, "email", "", "Email to store on the profile")
	cmd.Flags().StringVar(&role, "role", "", "Role: student, faculty or corporate")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}
