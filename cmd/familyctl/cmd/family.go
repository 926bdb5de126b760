package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
	"github.com/homewatch/dashboard/internal/validation"
)

func FamilyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "family",
		Short: "Inspect families",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show CODE",
		Short: "Show the family that owns a join code and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			store := repository.NewStore(database)
			code := validation.NormalizeJoinCode(args[0])

			family, err := store.Families().ByJoinCode(cmd.Context(), code)
			if errors.Is(err, repository.ErrFamilyNotFound) {
				return fmt.Errorf("no family with join code %q", code)
			}
			if err != nil {
				return err
			}

			members, err := store.Families().Members(cmd.Context(), family.ID)
			if err != nil {
				return err
			}

			return printFamily(cmd.OutOrStdout(), family, members)
		},
	})

	return cmd
}

func printFamily(out io.Writer, family *model.Family, members []*model.Member) error {
	fmt.Fprintf(out, "Family:    %s\n", family.Name)
	fmt.Fprintf(out, "ID:        %s\n", family.ID)
	fmt.Fprintf(out, "Join code: %s\n", family.JoinCode)
	fmt.Fprintf(out, "Created:   %s\n\n", family.CreatedAt.Format(time.RFC3339))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MEMBER\tEMAIL\tROLE")
	for _, m := range members {
		role := "member"
		if m.ID == family.CreatorID {
			role = "creator"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", deref(m.Name), deref(m.Email), role)
	}
	return tw.Flush()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
