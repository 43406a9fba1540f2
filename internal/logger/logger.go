// Package logger is the leveled logger shared by the API, the worker and
// the stores. Levels are ordered debug < info < error; Error and Fatal
// always print regardless of the configured level.
package logger

import (
	"log"
	"os"
)

var levelRank = map[string]int{
	"debug": 0,
	"info":  1,
	"error": 2,
}

type Logger struct {
	level string
}

func New(level string) *Logger {
	return &Logger{
		level: level,
	}
}

// enabled reports whether messages at the given level should print.
// Unknown configured levels fall back to info.
func (l *Logger) enabled(level string) bool {
	min, ok := levelRank[l.level]
	if !ok {
		min = levelRank["info"]
	}
	return levelRank[level] >= min
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.enabled("debug") {
		log.Printf("[DEBUG] "+msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.enabled("info") {
		log.Printf("[INFO] "+msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...interface{}) {
	log.Printf("[ERROR] "+msg, args...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	log.Printf("[FATAL] "+msg, args...)
	os.Exit(1)
}
