// budgetctl административные команды процесса бюджетирования: миграции,
// учётные записи, фазы, бюджет, расчёт одобрений и сброс.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "budgetctl",
		Short:         "Управление процессом бюджетирования",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.as, "as", "admin", "имя администратора, от которого выполняются команды")

	cmd.AddCommand(
		newMigrateCmd(),
		newUserCmd(),
		newPhaseCmd(opts),
		newBudgetCmd(opts),
		newApprovalsCmd(),
		newResetCmd(opts),
	)
	return cmd
}
