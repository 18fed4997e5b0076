package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Another0Noob/attendance-recon/internal/config"
	"github.com/Another0Noob/attendance-recon/internal/logger"
	"github.com/Another0Noob/attendance-recon/internal/reconcile"
	"github.com/Another0Noob/attendance-recon/internal/tables"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	cfg *config.Config

	// status receives progress lines; stderr when stdout carries JSON.
	status io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Reconcile class attendance against the roster and feedback forms",
	Long: `attendance matches noisy meeting participant lists against a class roster,
cross-checks them with feedback form submissions and produces the presence
sheet, payroll, checklist and facilitator reports for each class.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.Log.Format = logFormat
		}
		logger.Init(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		entry := log()
		var inputErr *reconcile.InputError
		if code := tables.Code(err); code != "" {
			entry = entry.WithField("code", code)
		} else if errors.As(err, &inputErr) {
			entry = entry.WithField("code", inputErr.Code)
		}
		entry.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgFile,
		"config",
		"c",
		"",
		"path to config file (.ini or .toml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		config.DefaultLogLevel,
		"log level (debug, info, warn, error)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		config.DefaultLogFormat,
		"log format (text or json)",
	)
}

func log() *logrus.Entry {
	return logrus.NewEntry(logger.Log)
}

// loadShared reads the roster and the optional feedback table.
func loadShared(rosterPath, feedbackPath string) (*tables.Roster, *tables.Feedback, error) {
	if rosterPath == "" {
		return nil, nil, fmt.Errorf("roster file is required")
	}
	fmt.Fprintln(status, "--- Reading Roster ---")
	roster, err := tables.ReadRosterFile(rosterPath)
	if err != nil {
		return nil, nil, err
	}
	fmt.Fprintf(status, "Got %d students.\n", roster.Len())

	feedback, err := tables.ReadFeedbackFile(feedbackPath)
	if err != nil {
		return nil, nil, err
	}
	if feedbackPath != "" {
		fmt.Fprintf(status, "Got %d feedback rows.\n", len(feedback.Rows))
	}
	return roster, feedback, nil
}

// stringFlag returns the flag value when set, else the configured value.
func stringFlag(cmd *cobra.Command, name, flagVal, cfgVal string) string {
	if cmd.Flags().Changed(name) || cfgVal == "" {
		return flagVal
	}
	return cfgVal
}
