package logger

import (
	"log"
	"os"
)

// New returns the daemon's stdout logger.
func New() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags)
}
