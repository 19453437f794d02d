// Package admin implements the quoteadmin maintenance commands.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/server"
	"github.com/dmitrijs2005/dailyquote/internal/server/config"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyquote/internal/server/seed"
	"github.com/dmitrijs2005/dailyquote/internal/server/services"
	"github.com/spf13/cobra"
)

// seams for tests
var (
	openDB     = server.OpenDB
	seedQuotes = seed.Seed
	now        = time.Now
)

type options struct {
	configPath string
	dsn        string
}

// args rebuilds the server flag list so admin commands share its config
// loading.
func (o *options) args() []string {
	var args []string
	if o.configPath != "" {
		args = append(args, "-c", o.configPath)
	}
	if o.dsn != "" {
		args = append(args, "-d", o.dsn)
	}
	return args
}

// open loads the server config and opens the database. Opening runs any
// pending migrations.
func (o *options) open(ctx context.Context) (*config.Config, *sql.DB, repomanager.RepositoryManager, error) {
	cfg, err := config.Load(o.args())
	if err != nil {
		return nil, nil, nil, err
	}
	db, rm, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, db, rm, nil
}

// NewRootCmd builds the quoteadmin command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "quoteadmin",
		Short:         "Maintenance tasks for the dailyquote database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "server JSON config file")
	root.PersistentFlags().StringVarP(&o.dsn, "dsn", "d", "", "PostgreSQL DSN (overrides the config file)")

	root.AddCommand(newMigrateCmd(o), newSeedCmd(o), newCreateUserCmd(o), newPurgeTokensCmd(o))
	return root
}

// newMigrateCmd relies on open, which migrates on every connect.
func newMigrateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, _, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

// newSeedCmd fills the catalogue. A non-empty quotes table is left alone.
func newSeedCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the quote catalogue into an empty quotes table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, _, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := seedQuotes(cmd.Context(), db)
			if err != nil {
				return fmt.Errorf("seed error: %w", err)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "quotes already present, nothing to do")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d quotes\n", n)
			return nil
		},
	}
}

// newCreateUserCmd signs an account up through the regular user service,
// so the same validation applies.
func newCreateUserCmd(o *options) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, rm, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			logger := server.NewLogger(cfg)
			us := services.NewUserService(db, rm, services.NewLogMailer(logger), cfg)

			sess, err := us.SignUp(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", sess.User.Email, sess.User.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (at least 6 characters)")
	cmd.Flags().StringVar(&name, "name", "", "full name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// newPurgeTokensCmd removes tokens of both kinds that have expired.
func newPurgeTokensCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-tokens",
		Short: "Delete expired refresh and recovery tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, rm, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := rm.RefreshTokens(db).DeleteExpired(cmd.Context(), now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired tokens\n", n)
			return nil
		},
	}
}
