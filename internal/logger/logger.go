/**
 * @description
 * Leveled logger for the DealWise backend.
 * Info and warnings go to stdout, errors go to stderr so hosted log collectors
 * only flag real failures.
 *
 * @dependencies
 * - standard "log"
 */

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu sync.RWMutex
	// InfoLogger writes to stdout
	InfoLogger = log.New(os.Stdout, "", log.LstdFlags)
	// ErrorLogger writes to stderr
	ErrorLogger = log.New(os.Stderr, "", log.LstdFlags)
)

// SetOutput redirects both loggers, mostly useful in tests
func SetOutput(info, errs io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	InfoLogger = log.New(info, "", log.LstdFlags)
	ErrorLogger = log.New(errs, "", log.LstdFlags)
}

// Info logs an info message to stdout
func Info(format string, v ...interface{}) {
	write(infoLogger(), "INFO", format, v...)
}

// Warn logs a warning to stdout
func Warn(format string, v ...interface{}) {
	write(infoLogger(), "WARN", format, v...)
}

// Error logs an error message to stderr
func Error(format string, v ...interface{}) {
	write(errorLogger(), "ERROR", format, v...)
}

// Fatal logs an error and exits
func Fatal(format string, v ...interface{}) {
	errorLogger().Fatalln("FATAL " + fmt.Sprintf(format, v...))
}

func write(l *log.Logger, level, format string, v ...interface{}) {
	l.Println(level + " " + fmt.Sprintf(format, v...))
}

func infoLogger() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return InfoLogger
}

func errorLogger() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return ErrorLogger
}
