package cmd

import (
	"fmt"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/icon"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/log"
	"github.com/spf13/cobra"
)

var undoList bool

var undoCmd = &cobra.Command{
	Use:   "undo [session-file]",
	Short: "Undo the mutations of a previous run",
	Long: `Reverse the filesystem changes recorded in an operation log session:
generated desktop.ini, folder.ico, and poster files are removed and media
files with embedded artwork are restored from their backups.

Without an argument the most recent session is undone. Use --list to see
available sessions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUndoCommand,
}

func runUndoCommand(cmd *cobra.Command, args []string) error {
	// File attributes must be cleared before Windows lets us delete
	// system-flagged files
	log.ClearAttributes = icon.ClearPathAttributes

	if undoList {
		return listSessions()
	}

	var session *log.LogSession
	var path string
	var err error

	if len(args) > 0 {
		path = args[0]
		session, err = log.ReadSession(path)
	} else {
		session, path, err = log.FindLatestSession()
	}
	if err != nil {
		return err
	}

	fmt.Printf("Undoing session %s (%d operations) from %s\n",
		session.Metadata.SessionID, session.Metadata.TotalOps, path)

	successful, failed, errs := log.UndoSession(session)
	for _, err := range errs {
		fmt.Println(errorStyle.Render("  ✗ " + err.Error()))
	}
	fmt.Printf("Undid %d operations, %d failed\n", successful, failed)

	if failed > 0 {
		return fmt.Errorf("%d operations could not be undone", failed)
	}
	return nil
}

func listSessions() error {
	summaries, err := log.GetSessionSummaries()
	if err != nil {
		return fmt.Errorf("failed to read log sessions: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No operation sessions found.")
		return nil
	}

	for _, summary := range summaries {
		fmt.Printf("%s  %s - %s (%d ops, %d failed)\n",
			summary.Session.Metadata.SessionID,
			sessionCommand(summary.Session),
			summary.RelativeTime,
			summary.Session.Metadata.TotalOps,
			summary.Session.Metadata.FailedOps)
		fmt.Println(mutedStyle.Render("    " + summary.FilePath))
	}
	return nil
}

// sessionCommand names the command that produced a session. Foreign or
// hand-edited log files may carry no command args at all.
func sessionCommand(session *log.LogSession) string {
	if len(session.Metadata.CommandArgs) == 0 {
		return "unknown"
	}
	return session.Metadata.CommandArgs[0]
}

func init() {
	undoCmd.Flags().BoolVarP(&undoList, "list", "l", false, "List undoable sessions instead of undoing")
	rootCmd.AddCommand(undoCmd)
}
