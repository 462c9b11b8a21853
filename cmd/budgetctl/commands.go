package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/francescogabrieli/budget-sociale/internal/db"
	"github.com/francescogabrieli/budget-sociale/internal/service"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := db.RunMigrations(cfg.DBDriver, cfg.DataSource()); err != nil {
				return err
			}
			return printVersion(cmd, cfg.DBDriver, cfg.DataSource())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Откатить все миграции",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := db.RollbackMigrations(cfg.DBDriver, cfg.DataSource()); err != nil {
				return err
			}
			return printVersion(cmd, cfg.DBDriver, cfg.DataSource())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Показать версию схемы",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return printVersion(cmd, cfg.DBDriver, cfg.DataSource())
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command, driver, dsn string) error {
	version, dirty, err := db.MigrationVersion(driver, dsn)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d dirty: %t\n", version, dirty)
	return nil
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Учётные записи",
	}

	var in service.CreateUserInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Создать пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("BUDGETCTL_PASSWORD")
			}
			return withApp(cmd.Context(), func(a *app) error {
				user, err := a.auth.CreateUser(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %d %s (%s)\n", user.ID, user.Username, user.Role)
				return nil
			})
		},
	}
	create.Flags().StringVar(&in.Username, "username", "", "логин")
	create.Flags().StringVar(&in.Name, "name", "", "имя")
	create.Flags().StringVar(&in.Surname, "surname", "", "фамилия")
	create.Flags().StringVar(&in.Role, "role", "Member", "роль: Admin или Member")
	create.Flags().StringVar(&in.Password, "password", "", "пароль (или BUDGETCTL_PASSWORD)")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("surname")

	cmd.AddCommand(create)
	return cmd
}

func newPhaseCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Фаза процесса",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Показать текущую фазу и бюджет",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				round, err := a.workflow.GetRound(cmd.Context())
				if err != nil {
					return err
				}
				budget := "не задан"
				if round.Budget != nil {
					budget = round.Budget.String()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "phase: %d (%s)\nbudget: %s\n", round.Phase, round.Phase, budget)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "advance",
		Short: "Перейти в следующую фазу",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				principal, err := a.principal(cmd.Context(), opts.as)
				if err != nil {
					return err
				}
				phase, err := a.workflow.AdvancePhase(cmd.Context(), principal)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "phase: %d (%s)\n", phase, phase)
				return nil
			})
		},
	})

	return cmd
}

func newBudgetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Бюджет процесса",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <amount>",
		Short: "Задать бюджет (только в фазе 0)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("некорректная сумма %q", args[0])
			}
			return withApp(cmd.Context(), func(a *app) error {
				// процесс создаётся при первом обращении
				if _, err := a.workflow.GetPhase(cmd.Context()); err != nil {
					return err
				}
				principal, err := a.principal(cmd.Context(), opts.as)
				if err != nil {
					return err
				}
				round, err := a.workflow.SetBudget(cmd.Context(), principal, amount)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "budget: %s\n", round.Budget)
				return nil
			})
		},
	})

	return cmd
}

func newApprovalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "Одобрение предложений",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "compute",
		Short: "Рассчитать одобренные предложения (фаза 3)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				result, err := a.workflow.ComputeApprovals(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "STATUS\tID\tDESCRIPTION\tOWNER\tCOST\tSCORE")
				for _, p := range result.Approved {
					fmt.Fprintf(w, "approved\t%d\t%s\t%s\t%s\t%d\n", p.ProposalID, p.Description, p.OwnerUsername, p.Cost, p.TotalScore)
				}
				for _, p := range result.NonApproved {
					fmt.Fprintf(w, "rejected\t%d\t%s\t-\t%s\t%d\n", p.ProposalID, p.Description, p.Cost, p.TotalScore)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "budget: %s approved: %s\n", result.Budget, result.TotalApprovedCost())
				return nil
			})
		},
	})

	return cmd
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Удалить предложения и голоса, вернуть процесс в фазу 0",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("сброс удаляет все предложения и голоса, повторите с --yes")
			}
			return withApp(cmd.Context(), func(a *app) error {
				principal, err := a.principal(cmd.Context(), opts.as)
				if err != nil {
					return err
				}
				if err := a.workflow.ResetAll(cmd.Context(), principal); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "reset: done")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "подтвердить сброс")
	return cmd
}
