// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command questionnaire runs the survey in a terminal and submits the
// answers to a Quickly Survey server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-survey/questionnaire"
	"github.com/danielhkuo/quickly-survey/store"
)

var (
	serverURL     string
	questionsFile string
	backupFile    string
	logFile       string
	timeout       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "questionnaire",
	Short: "Answer the survey in your terminal",
	Long: `Walks through the survey one question at a time and submits the answers.

If the server cannot be reached the response is kept in a local backup file
so nothing is lost.

Keys:
  y / 1      answer yes
  n / 2      answer no
  enter      next question, or submit on the last one
  left/right move between questions
  ctrl+c     quit`,
	Args: cobra.NoArgs,
	RunE: runQuestionnaire,
}

func init() {
	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:3000", "Survey server base URL")
	rootCmd.Flags().StringVarP(&questionsFile, "questions", "q", "", "Question set YAML (defaults to the built-in set)")
	rootCmd.Flags().StringVarP(&backupFile, "backup", "b", "survey_backup.json", "Local backup file used when the server is unreachable")
	rootCmd.Flags().StringVar(&logFile, "log", "", "Write logs to this file")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "Submission timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runQuestionnaire(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal; logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, nil)))

	def := questionnaire.Default()
	if questionsFile != "" {
		var err error
		def, err = questionnaire.Load(questionsFile)
		if err != nil {
			return err
		}
	}

	backup, err := store.OpenJSON(backupFile, emailsFileFor(backupFile))
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer backup.Close()

	submitter := questionnaire.NewSubmitter(serverURL, nil, backup)
	m := newModel(questionnaire.NewSession(def), submitter.Submit, timeout)
	m.meta = questionnaire.ClientMeta{
		UserAgent: "quickly-survey-tui",
		PageURL:   serverURL,
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}

	if fm, ok := final.(model); ok && fm.outcome != nil {
		fmt.Fprintln(cmd.OutOrStdout(), summaryLine(*fm.outcome))
	}
	return nil
}

func emailsFileFor(backup string) string {
	return strings.TrimSuffix(backup, ".json") + "_emails.json"
}
