// Command rosterctl prepares roster sources for the server and mints
// teacher tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/student-threshold-api/internal/config"
	"github.com/iliyamo/student-threshold-api/internal/database"
	"github.com/iliyamo/student-threshold-api/internal/model"
	"github.com/iliyamo/student-threshold-api/internal/repository"
	"github.com/iliyamo/student-threshold-api/internal/roster"
	"github.com/iliyamo/student-threshold-api/internal/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "rosterctl",
		Short:        "Manage student roster sources and access tokens",
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newSeedCmd(), newTokenCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		size int
		seed int64
		out  string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic roster spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := roster.WriteXLSX(out, roster.Generate(size, seed)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d students to %s\n", max(size, 0), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 100, "number of students")
	cmd.Flags().Int64Var(&seed, "seed", 0, "generator seed, 0 for random")
	cmd.Flags().StringVarP(&out, "out", "o", "roster.xlsx", "output path")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var (
		from string
		size int
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "seed-mysql",
		Short: "Replace the MySQL roster with a spreadsheet or a generated roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := seedRecords(from, size, seed)
			if err != nil {
				return err
			}
			if _, err := model.NewRoster(records); err != nil {
				return err
			}

			cfg := config.Load()
			cfg.RosterSource = config.SourceMySQL
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			db, err := database.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewStudentRepo(db)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := repo.ReplaceAll(ctx, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d students into %s\n", len(records), cfg.DBName)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "spreadsheet to import instead of generating")
	cmd.Flags().IntVar(&size, "size", 100, "number of generated students")
	cmd.Flags().Int64Var(&seed, "seed", 0, "generator seed, 0 for random")
	return cmd
}

func seedRecords(from string, size int, seed int64) ([]model.StudentRecord, error) {
	if from == "" {
		return roster.Generate(size, seed), nil
	}
	f, err := os.Open(from)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return roster.ReadXLSX(f)
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if ttl <= 0 {
				ttl = cfg.AccessTTLMin
			}
			tok, err := utils.NewAccessToken(cfg.JWTSecret, subject, role, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", tok.Exp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "teacher", "token subject")
	cmd.Flags().StringVar(&role, "role", utils.RoleTeacher, "token role")
	cmd.Flags().IntVar(&ttl, "ttl", 0, "lifetime in minutes, defaults to ACCESS_TOKEN_TTL_MIN")
	return cmd
}
