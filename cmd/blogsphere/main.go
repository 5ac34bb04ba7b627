// @title           BlogSphere API
// @version         1.0
// @description     Blogging backend with bearer-token auth, categories, posts, comments, likes and views.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/service"
	"github.com/blogsphere/api/internal/infrastructure/config"
	"github.com/blogsphere/api/internal/infrastructure/db/sqlite"
	"github.com/blogsphere/api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "blogsphere",
		Short:         "BlogSphere API server and admin tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := newServeCmd()
	root.AddCommand(serve)
	root.AddCommand(newSetRoleCmd())
	root.RunE = serve.RunE

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// newSetRoleCmd changes a user's role directly in the store. It is the only
// way to create the first administrator.
func newSetRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <username> <USER|ADMIN>",
		Short: "Change the role of an existing user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.IsDevelopment(),
				Service: "blogsphere-cli",
				Output:  os.Stderr,
			})

			db, err := sqlite.Open(ctx, cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			users := service.NewUserService(sqlite.NewUserRepository(db), nil, nil, log)
			user, err := users.SetRole(ctx, args[0], domain.Role(args[1]))
			if err != nil {
				return fmt.Errorf("set-role %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
			return nil
		},
	}
}
