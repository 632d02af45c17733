// Package acceptcmd implements the `invitectl accept` command.
package acceptcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invite-rsvp/cmd/invitectl/shared"
	"invite-rsvp/internal/rsvp"
	"invite-rsvp/pkg/invitetoken"
)

// Command implements `invitectl accept`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	token   string
	name    string
	contact string
	force   bool
}

// New creates the accept command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "accept",
		Short: "以邀请令牌提交出席确认",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.token, "token", "", "邀请令牌")
	f.StringVar(&c.name, "name", "", "姓名")
	f.StringVar(&c.contact, "contact", "", "邮箱或电话")
	f.BoolVar(&c.force, "force", false, "忽略本机已确认标记，再次提交")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	logger := c.ctx.Logger()
	defer logger.Sync()

	flags, err := c.ctx.FlagStore()
	if err != nil {
		return err
	}
	rec := rsvp.NewRecorder(c.ctx.Client(), flags, c.ctx.Timeout, logger)

	inv, ok := invitetoken.Resolve(c.token, logger)
	view := rec.Load(cmd.Context(), inv, ok)
	if view.State == rsvp.StateConfirmed && !c.force {
		fmt.Fprintf(cmd.OutOrStdout(), "Already confirmed on this device at %s\n",
			view.Flag.AcceptedAt.Local().Format("2006-01-02 15:04"))
		return nil
	}

	result, err := rec.Submit(cmd.Context(), inv, ok, rsvp.Form{
		GuestName:   c.name,
		ContactInfo: c.contact,
	})
	if err != nil {
		if rsvp.IsRetryable(err) {
			return fmt.Errorf("%w（可重新执行本命令重试）", err)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Confirmed: %s (id: %s, invites: %d)\n", result.GuestName, result.ID, inv.Count)
	return nil
}
