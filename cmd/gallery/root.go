package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	verbose bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Build lightbox gallery pages and thumbnails",
	Long: `gallery turns a tree of generated charts into static HTML pages whose
thumbnails open in a lightbox, and keeps the scaled-down thumbnails in sync
with the full-size images.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write the log to this file (rotated)")
}

// setupLogging points the standard logger at stderr and, optionally, a rotated file
func setupLogging() error {
	if verbose {
		if err := os.Setenv("LIGHTBOX_DEBUG", "1"); err != nil {
			return fmt.Errorf("enabling debug output: %w", err)
		}
	}

	if logFile == "" {
		return nil
	}
	rotated := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotated))
	return nil
}
