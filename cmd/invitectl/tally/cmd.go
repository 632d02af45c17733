// Package tallycmd implements the `invitectl tally` command.
package tallycmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"invite-rsvp/cmd/invitectl/shared"
)

// Command implements `invitectl tally`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	summary bool
}

// New creates the tally command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "tally",
		Short: "查看确认统计与记录（最新在前）",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.summary, "summary", false, "只输出统计")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	tally, err := c.ctx.Client().Tally(cmd.Context())
	if err != nil {
		return fmt.Errorf("获取确认统计失败: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Confirmations: %d\n", tally.TotalConfirmations)
	fmt.Fprintf(out, "Assistants: %d\n", tally.TotalAssistants)
	if c.summary || len(tally.Invites) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCONTACT\tINVITES\tACCEPTED AT")
	for _, inv := range tally.Invites {
		count := 0
		if inv.InviteCount != nil {
			count = *inv.InviteCount
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", inv.GuestName, inv.ContactInfo, count, inv.AcceptedAt)
	}
	return tw.Flush()
}
