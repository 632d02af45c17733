// Package migratecmd implements the `invitectl migrate` command.
package migratecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invite-rsvp/cmd/invitectl/shared"
	"invite-rsvp/config"
	"invite-rsvp/pkg/database"
)

// Command implements `invitectl migrate`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	down int
}

// New creates the migrate command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移（使用服务端配置）",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().IntVar(&c.down, "down", 0, "回滚的迁移步数，0 表示迁移到最新")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	if c.down < 0 {
		return fmt.Errorf("--down 不能为负数")
	}

	cfg, err := config.Load(c.ctx.ConfigPath)
	if err != nil {
		return err
	}

	logger := c.ctx.Logger()
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if c.down > 0 {
		if err := database.RollbackMigrations(sqlDB, c.down, logger); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", c.down)
		return nil
	}

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
	return nil
}
