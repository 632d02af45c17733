// Package rootcmd wires the root cobra.Command for invitectl.
package rootcmd

import (
	"time"

	"github.com/spf13/cobra"

	acceptcmd "invite-rsvp/cmd/invitectl/accept"
	migratecmd "invite-rsvp/cmd/invitectl/migrate"
	"invite-rsvp/cmd/invitectl/shared"
	tallycmd "invite-rsvp/cmd/invitectl/tally"
	tokencmd "invite-rsvp/cmd/invitectl/token"
)

// New creates and returns the root cobra.Command for invitectl.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "invitectl",
		Short:         "邀请令牌与出席确认命令行工具",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&ctx.ServerURL, "server", "http://localhost:8080", "确认服务地址")
	pf.StringVar(&ctx.ConfigPath, "config", "", "服务端配置文件路径（migrate 使用）")
	pf.StringVar(&ctx.FlagFile, "flag-file", "", "本机确认标记文件（默认 ~/.config/invitectl/accepted.yaml）")
	pf.DurationVar(&ctx.Timeout, "timeout", 10*time.Second, "请求超时")
	pf.BoolVarP(&ctx.Verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(
		tokencmd.New(ctx).Cmd(),
		acceptcmd.New(ctx).Cmd(),
		tallycmd.New(ctx).Cmd(),
		migratecmd.New(ctx).Cmd(),
	)

	return root
}
