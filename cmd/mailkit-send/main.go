// Command mailkit-send is a thin demonstration binary for the mailkit
// library: it reads a JSON envelope description and either prints the
// serialized message or submits it over SMTP. It is not a transport
// layer in its own right.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mailkit-send",
	Short: "compose and emit a mailkit message",
	Long:  "mailkit-send reads a JSON envelope file and writes the composed RFC 5322 message to stdout, or submits it over SMTP with --smtp.",
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug information")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.InfoLevel)
		}
	}
	rootCmd.AddCommand(sendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
