package utils

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

const logName = "Prashiskshan"

// LoggerConfig configures InitLogger.
type LoggerConfig struct {
	// text or json
	Format string
	// defaults to os.Stdout
	Output io.Writer
	// colored prefix for terminals, text only
	EnableColors bool
}

// InitLogger builds the application logger. The json format writes one object per line.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	if strings.EqualFold(cfg.Format, "json") {
		return log.New(jsonLines{out: cfg.Output}, "", 0)
	}

	prefix := "[" + logName + "] "
	if cfg.EnableColors {
		prefix = "\033[36m" + prefix + "\033[0m"
	}
	return log.New(cfg.Output, prefix, log.LstdFlags|log.Lshortfile|log.LUTC)
}

type logLine struct {
	Time    string `json:"time"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// jsonLines wraps each formatted entry in a logLine. log.Logger serializes calls to Write.
type jsonLines struct {
	out io.Writer
}

func (w jsonLines) Write(p []byte) (int, error) {
	line, err := json.Marshal(logLine{
		Time:    time.Now().UTC().Format(time.RFC3339Nano),
		Service: logName,
		Message: strings.TrimSuffix(string(p), "\n"),
	})
	if err != nil {
		return 0, err
	}
	if _, err := w.out.Write(append(line, '\n')); err != nil {
		return 0, err
	}
	return len(p), nil
}
