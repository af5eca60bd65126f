package cli

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const app = "jobmatch"

var (
	debug   bool
	jsonLog bool

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobmatch matches a resume against a job catalogue and ranks the results",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		// .env is optional; real environments set variables directly
		_ = godotenv.Load()
	})

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")
}

// newLogger builds the process logger from the persistent flags.
func newLogger() *logrus.Entry {
	logger := logrus.New()
	if jsonLog {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger.WithField("service", app)
}
