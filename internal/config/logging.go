package config

import "os"

// LogFile is the path of the rotating log file, empty when logs go to
// stderr.
func LogFile() string {
	return os.Getenv("MINEFIELD_LOG_FILE")
}
