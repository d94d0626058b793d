package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	periodo  string
	runDate  string
	seedYear int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the DAS guides of a period for every active client",
	Long: `Generates the DAS-MEI guides through the active provider.

The period is YYYYMM, MM/YYYY or YYYY-MM; it defaults to the current month.
Clients that already have a guide for the period are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		automation := container.Services.Automation
		p, err := automation.ResolvePeriodo(periodo)
		if err != nil {
			return err
		}
		summary, err := automation.GenerateGuides(cmd.Context(), p, operador)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send the guides scheduled for a date",
	Long: `Sends the guides whose delivery is scheduled for --date (YYYY-MM-DD,
default today). With --periodo every pending guide of that period is sent
instead, regardless of schedule.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		automation := container.Services.Automation
		if periodo != "" {
			p, err := automation.ResolvePeriodo(periodo)
			if err != nil {
				return err
			}
			summary, err := automation.SendPending(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		}
		date, err := parseRunDate(runDate, container.Config.Scheduler.Location())
		if err != nil {
			return err
		}
		summary, err := automation.SendScheduled(cmd.Context(), date)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Send due date reminders for unpaid guides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseRunDate(runDate, container.Config.Scheduler.Location())
		if err != nil {
			return err
		}
		summary, err := container.Services.Automation.SendReminders(cmd.Context(), date)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Process the failed delivery retry queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := container.Services.Automation.ProcessRetryQueue(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

var importClientesCmd = &cobra.Command{
	Use:   "import-clientes FILE",
	Short: "Import clients from a CSV file",
	Long: `Imports clients from a CSV export. Rows with an invalid or duplicate
CNPJ are reported and skipped; the remaining rows are stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		result, err := container.Services.Clientes.ImportCSV(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load default task templates, messages, settings and holidays",
	Long: `Stores the default task templates, WhatsApp message templates and
automation settings, plus the national holidays of --year and the year
after. Existing records are kept. The admin account is created when
PROSPERAR_SEED_ADMIN_PASSWORD is set and no admin exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seeder, err := container.Seeder()
		if err != nil {
			return err
		}
		year := seedYear
		if year == 0 {
			year = time.Now().In(container.Config.Scheduler.Location()).Year()
		}
		result, err := seeder.Run(cmd.Context(), year, year+1)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	generateCmd.Flags().StringVar(&periodo, "periodo", "", "Period (YYYYMM); defaults to the current month")
	sendCmd.Flags().StringVar(&periodo, "periodo", "", "Send every pending guide of this period")
	sendCmd.Flags().StringVar(&runDate, "date", "", "Delivery date (YYYY-MM-DD); defaults to today")
	remindersCmd.Flags().StringVar(&runDate, "date", "", "Reference date (YYYY-MM-DD); defaults to today")
	seedCmd.Flags().IntVar(&seedYear, "year", 0, "First holiday year; defaults to the current year")
}

// parseRunDate reads YYYY-MM-DD in loc; empty means now
func parseRunDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Now().In(loc), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}
