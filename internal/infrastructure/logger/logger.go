package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

var (
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
	Warn  *log.Logger
)

const logFlags = log.Ldate | log.Ltime | log.LUTC | log.Lshortfile

func init() {
	Info = log.New(os.Stdout, "INFO: ", logFlags)
	Error = log.New(os.Stdout, "ERROR: ", logFlags)
	Debug = log.New(io.Discard, "DEBUG: ", logFlags)
	Warn = log.New(os.Stdout, "WARN: ", logFlags)
}

// SetLevel picks the lowest level written to stdout: "debug", "info",
// "warn" or "error". Unknown levels fall back to "info".
func SetLevel(level string) {
	rank := map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}
	threshold, ok := rank[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		threshold = 1
	}

	out := func(r int) io.Writer {
		if r >= threshold {
			return os.Stdout
		}
		return io.Discard
	}
	Debug.SetOutput(out(0))
	Info.SetOutput(out(1))
	Warn.SetOutput(out(2))
	Error.SetOutput(out(3))
}
