package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

type markRequest struct {
	IdentityID  string  `json:"identity_id,omitempty"`
	EvidenceRef *string `json:"evidence_ref,omitempty"`
}

type attendanceRecord struct {
	RecordID    string  `json:"record_id"`
	IdentityID  string  `json:"identity_id"`
	OccurredAt  string  `json:"occurred_at"`
	EvidenceRef *string `json:"evidence_ref,omitempty"`
	Email       *string `json:"email,omitempty"`
	Role        *string `json:"role,omitempty"`
}

func newMarkCmd(client *Client) *cobra.Command {
	var (
		identity string
		evidence string
	)

	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark attendance",
		Long:  "Append one attendance record. The identity defaults to the token's subject.",
		Example: `  # Mark attendance for the signed-in identity
  rollcall mark

  # Mark with an evidence reference
  rollcall mark --evidence s3://bucket/evidence/u1/photo.jpg`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := markRequest{IdentityID: identity}
			if evidence != "" {
				req.EvidenceRef = &evidence
			}

			var rec attendanceRecord
			if err := client.DoJSON(http.MethodPost, "/attendance", nil, req, &rec); err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, rec)
			}
			fmt.Fprintf(os.Stdout, "Marked %s at %s (record %s)\n", rec.IdentityID, rec.OccurredAt, rec.RecordID)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Identity to mark (defaults to the token's subject)")
	cmd.Flags().StringVar(&evidence, "evidence", "", "Opaque evidence reference to store with the record")

	return cmd
}
