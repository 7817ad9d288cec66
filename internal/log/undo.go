package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ClearAttributes, when set, is called before removing a generated file so
// that system or hidden attributes on Windows do not block the removal.
// The CLI wires this to the icon package's attribute handling.
var ClearAttributes func(path string) error

type UndoResult struct {
	Operation OperationLog
	Success   bool
	Error     error
}

func UndoOperation(op OperationLog) UndoResult {
	result := UndoResult{
		Operation: op,
		Success:   false,
	}

	switch op.Type {
	case OpWritePoster, OpWriteIni, OpWriteIcon:
		// Reverse a generated file: remove it
		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo %s: file path missing", op.Type)
			return result
		}

		if _, err := os.Stat(op.DestPath); os.IsNotExist(err) {
			// File already removed, consider it successful
			result.Success = true
			return result
		}

		if ClearAttributes != nil {
			if err := ClearAttributes(op.DestPath); err != nil {
				result.Error = fmt.Errorf("failed to clear attributes on %s: %w", op.DestPath, err)
				return result
			}
		}

		if err := os.Remove(op.DestPath); err != nil {
			result.Error = fmt.Errorf("failed to remove %s: %w", op.DestPath, err)
			return result
		}

		result.Success = true

	case OpEmbedArtwork:
		// Reverse an embed: put the pristine backup copy back in place
		if op.SourcePath == "" || op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo embed: media or backup path missing")
			return result
		}

		if _, err := os.Stat(op.DestPath); os.IsNotExist(err) {
			result.Error = fmt.Errorf("cannot undo embed: backup %s not found", op.DestPath)
			return result
		}

		if err := os.Rename(op.DestPath, op.SourcePath); err != nil {
			result.Error = fmt.Errorf("failed to restore %s from backup: %w", op.SourcePath, err)
			return result
		}

		result.Success = true

	case OpSetAttrs:
		// Reverse attribute changes on a folder or file
		if op.SourcePath == "" {
			result.Error = fmt.Errorf("cannot undo attribute change: path missing")
			return result
		}

		if _, err := os.Stat(op.SourcePath); os.IsNotExist(err) {
			// Target already gone, nothing to clear
			result.Success = true
			return result
		}

		if ClearAttributes != nil {
			if err := ClearAttributes(op.SourcePath); err != nil {
				result.Error = fmt.Errorf("failed to clear attributes on %s: %w", op.SourcePath, err)
				return result
			}
		}

		result.Success = true

	default:
		result.Error = fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return result
}

func UndoSession(session *LogSession) (successful int, failed int, errors []error) {
	// Process operations in reverse order
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]

		// Only undo successful operations
		if !op.Success {
			continue
		}

		result := UndoOperation(op)
		if result.Success {
			successful++
		} else {
			failed++
			if result.Error != nil {
				errors = append(errors, result.Error)
			}
		}
	}

	return successful, failed, errors
}

func FindLatestSession() (*LogSession, string, error) {
	dir, err := logDir()
	if err != nil {
		return nil, "", err
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, "", fmt.Errorf("no log directory found")
	}

	sessions, err := ReadSessions(1)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sessions: %w", err)
	}

	if len(sessions) == 0 {
		return nil, "", fmt.Errorf("no sessions found")
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		return nil, "", fmt.Errorf("no log files found")
	}

	// Files are already sorted, take the latest
	latestFile := files[len(files)-1]

	return sessions[0], latestFile, nil
}

type SessionSummary struct {
	Session      *LogSession
	FilePath     string
	RelativeTime string
}

func GetSessionSummaries() ([]SessionSummary, error) {
	dir, err := logDir()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []SessionSummary{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	// Newest first
	for i := 0; i < len(files)/2; i++ {
		files[i], files[len(files)-1-i] = files[len(files)-1-i], files[i]
	}

	summaries := make([]SessionSummary, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}

		summaries = append(summaries, SessionSummary{
			Session:      session,
			FilePath:     file,
			RelativeTime: formatRelativeTime(session.Metadata.Timestamp),
		})
	}

	return summaries, nil
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)
	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
