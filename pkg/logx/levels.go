package logx

import "strings"

// Level represents logging level
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	// LevelFatal logs and exits
	LevelFatal
	// LevelOff disables all logging
	LevelOff
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL", "OFF"}

// String returns the string representation of the log level
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLevel parses a string into a Level, defaulting to LevelInfo
func ParseLevel(level string) Level {
	switch strings.ToUpper(level) {
	case "WARNING":
		return LevelWarn
	default:
		for i, name := range levelNames {
			if strings.ToUpper(level) == name {
				return Level(i)
			}
		}
		return LevelInfo
	}
}

// Enabled reports whether target is logged at level l
func (l Level) Enabled(target Level) bool {
	return l <= target
}
