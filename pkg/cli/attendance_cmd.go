package cli

import (
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newAttendanceCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Query the attendance ledger",
	}

	cmd.AddCommand(newAttendanceListCmd(client))
	return cmd
}

func newAttendanceListCmd(client *Client) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attendance records, newest first",
		Example: `  # Full ledger
  rollcall attendance list

  # One calendar day
  rollcall attendance list --date 2025-08-08`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := url.Values{}
			if date != "" {
				query.Set("date", date)
			}

			var records []attendanceRecord
			if err := client.DoJSON(http.MethodGet, "/attendance", query, nil, &records); err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, records)
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				email, role := "-", "-"
				if rec.Email != nil {
					email = *rec.Email
				}
				if rec.Role != nil {
					role = *rec.Role
				}
				evidence := "-"
				if rec.EvidenceRef != nil {
					evidence = *rec.EvidenceRef
				}
				rows = append(rows, []string{rec.OccurredAt, rec.IdentityID, email, role, evidence})
			}
			printTable(os.Stdout, []string{"OCCURRED AT", "IDENTITY", "EMAIL", "ROLE", "EVIDENCE"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Calendar day filter (YYYY-MM-DD)")

	return cmd
}
