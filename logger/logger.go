package logger

import (
	"log"
	"os"
)

var (
	// Info logs to stdout (shows as [info] on the hosting platform)
	Info *log.Logger

	// Error logs to stderr (shows as [err] on the hosting platform)
	Error *log.Logger
)

func init() {
	Info = log.New(os.Stdout, "", log.LstdFlags)
	Error = log.New(os.Stderr, "", log.LstdFlags)
}

// Println writes a normal log line to stdout
func Println(v ...interface{}) {
	Info.Println(v...)
}

// Printf writes a formatted log line to stdout
func Printf(format string, v ...interface{}) {
	Info.Printf(format, v...)
}

// Errorln writes an error log line to stderr
func Errorln(v ...interface{}) {
	Error.Println(v...)
}

// Errorf writes a formatted error log line to stderr
func Errorf(format string, v ...interface{}) {
	Error.Printf(format, v...)
}

// Fatalf logs a fatal error and exits
func Fatalf(format string, v ...interface{}) {
	Error.Fatalf(format, v...)
}
