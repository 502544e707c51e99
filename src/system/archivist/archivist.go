package archivist

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/voodooEntity/rigpose/src/system/interfaces"
)

const (
	LEVEL_DEBUG   = 1
	LEVEL_INFO    = 2
	LEVEL_WARNING = 3
	LEVEL_ERROR   = 4
	LEVEL_FATAL   = 5
)

// Constants for granular debug levels
const (
	DEBUG_LEVEL_TRACE  = iota + 1 // traversal steps (one line per joint)
	DEBUG_LEVEL_INFO              // capture/apply summaries
	DEBUG_LEVEL_DETAIL            // transform values
	DEBUG_LEVEL_DUMP              // whole snapshots
	DEBUG_LEVEL_MAX               // everything
)

var levelNames = [5]string{"debug", "info", "warning", "error", "fatal"}

type Archivist struct {
	logFlags   [5]bool
	logger     interfaces.LoggerInterface
	debugLevel int
	ident      string
}

type Config struct {
	Logger     interfaces.LoggerInterface
	LogLevel   int
	DebugLevel int
	// Ident is written into every line to tell scenes apart when several
	// share one logger.
	Ident string
}

func New(conf *Config) *Archivist {
	archivist := &Archivist{
		logFlags: [5]bool{false, true, true, true, true},
		ident:    conf.Ident,
	}

	// in case no logger is given we default to stdout
	archivist.SetLogger(conf.Logger)
	archivist.SetLogLevel(conf.LogLevel)

	// debug verbosity only matters if the log level is debug
	if conf.LogLevel == LEVEL_DEBUG {
		archivist.SetDebugLevel(conf.DebugLevel)
	}

	return archivist
}

func (a *Archivist) store(level int, message string, formatted bool, params []interface{}) {
	// dispatch the caller file+line number, skipping store and the level method
	_, file, line, _ := runtime.Caller(2)
	packageFile := file[strings.LastIndex(file, "/")+1:]

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("|")
	sb.WriteString(levelNames[level-1])
	sb.WriteString("|")
	if a.ident != "" {
		sb.WriteString(a.ident)
		sb.WriteString("|")
	}
	sb.WriteString(packageFile + "#" + strconv.Itoa(line) + "|")

	switch {
	case formatted:
		sb.WriteString(fmt.Sprintf(message, params...))
	case 0 < len(params):
		sb.WriteString(message + "|" + fmt.Sprintf("%+v", params))
	default:
		sb.WriteString(message)
	}

	a.logger.Println(sb.String())
}

func (a *Archivist) enabled(level int) bool {
	return a.logFlags[level-1]
}

func (a *Archivist) Error(message string, params ...interface{}) {
	if a.enabled(LEVEL_ERROR) {
		a.store(LEVEL_ERROR, message, false, params)
	}
}

func (a *Archivist) ErrorF(message string, params ...interface{}) {
	if a.enabled(LEVEL_ERROR) {
		a.store(LEVEL_ERROR, message, true, params)
	}
}

func (a *Archivist) Fatal(message string, params ...interface{}) {
	if a.enabled(LEVEL_FATAL) {
		a.store(LEVEL_FATAL, message, false, params)
	}
}

func (a *Archivist) FatalF(message string, params ...interface{}) {
	if a.enabled(LEVEL_FATAL) {
		a.store(LEVEL_FATAL, message, true, params)
	}
}

func (a *Archivist) Info(message string, params ...interface{}) {
	if a.enabled(LEVEL_INFO) {
		a.store(LEVEL_INFO, message, false, params)
	}
}

func (a *Archivist) InfoF(message string, params ...interface{}) {
	if a.enabled(LEVEL_INFO) {
		a.store(LEVEL_INFO, message, true, params)
	}
}

func (a *Archivist) Warning(message string, params ...interface{}) {
	if a.enabled(LEVEL_WARNING) {
		a.store(LEVEL_WARNING, message, false, params)
	}
}

func (a *Archivist) WarningF(message string, params ...interface{}) {
	if a.enabled(LEVEL_WARNING) {
		a.store(LEVEL_WARNING, message, true, params)
	}
}

func (a *Archivist) Debug(level int, message string, params ...interface{}) {
	if a.enabled(LEVEL_DEBUG) && level <= a.debugLevel {
		a.store(LEVEL_DEBUG, message, false, params)
	}
}

func (a *Archivist) DebugF(level int, message string, params ...interface{}) {
	if a.enabled(LEVEL_DEBUG) && level <= a.debugLevel {
		a.store(LEVEL_DEBUG, message, true, params)
	}
}

// SetLogLevel enables every level at or above logLevel. 0 means
// LEVEL_WARNING, unknown values fall back to it with an error line.
func (a *Archivist) SetLogLevel(logLevel int) {
	if 0 == logLevel {
		logLevel = LEVEL_WARNING
	}

	if logLevel < LEVEL_DEBUG || logLevel > LEVEL_FATAL {
		a.Error("Given LOG_LEVEL is unknown, defaulting to LEVEL_WARNING provided was: ", logLevel)
		logLevel = LEVEL_WARNING
	}

	for index := range a.logFlags {
		a.logFlags[index] = logLevel-1 <= index
	}
}

func (a *Archivist) SetDebugLevel(level int) {
	if level < 0 {
		level = 0
	}
	a.debugLevel = level
}

func (a *Archivist) SetLogger(logger interfaces.LoggerInterface) {
	if nil == logger {
		logger = log.New(os.Stdout, "", 0)
	}
	a.logger = logger
}

// Discard returns an archivist that drops everything. Handy for hosts
// that are built without a logger.
func Discard() *Archivist {
	return New(&Config{Logger: nopLogger{}, LogLevel: LEVEL_FATAL})
}

type nopLogger struct{}

func (nopLogger) Println(v ...interface{}) {}
