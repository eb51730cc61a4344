package logs

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger — процесс-глобальный логгер, инициализируется один раз в App.Initialize.
var Logger = logrus.New()

var logFile *os.File

type Options struct {
	Level  string // debug | info | warn | error
	Format string // text | json
	File   string // optional, duplicates output to a file
}

func Init(o Options) {
	lvl, err := logrus.ParseLevel(o.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)

	if o.Format == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Logger.SetOutput(os.Stderr)
	if o.File != "" {
		f, ferr := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if ferr != nil {
			Logger.Warnf("log file %s: %v (stderr only)", o.File, ferr)
			return
		}
		logFile = f
		Logger.SetOutput(io.MultiWriter(os.Stderr, f))
	}
}

// Close сбрасывает файловый вывод при остановке сервера.
func Close() {
	if logFile != nil {
		_ = logFile.Sync()
		_ = logFile.Close()
		logFile = nil
		Logger.SetOutput(os.Stderr)
	}
}
