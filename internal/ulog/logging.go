// Package ulog centralizes the engine's console logging setup, carried over
// from the teacher's utils/logging.go: a colourized zerolog console writer
// with caller info, switchable to plain output for non-tty/CI use.
package ulog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	SetConsole(false)
}

var colourDisabled bool

const (
	colorRed = iota + 31
	colorGreen
	colorYellow
	_
	colorMagenta

	colorBold     = 1
	colorDarkGray = 90
)

func colorize(s interface{}, c int) string {
	if colourDisabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

// SetConsole installs the console writer. noColour disables ANSI escapes,
// e.g. when stdout is not a tty or the CLI's --nc flag is set.
func SetConsole(noColour bool) {
	colourDisabled = noColour
	zerolog.CallerMarshalFunc = callerMarshal

	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly, NoColor: noColour}
	cw.FormatCaller = formatCaller
	cw.FormatLevel = formatLevel
	cw.PartsOrder = []string{
		zerolog.TimestampFieldName,
		zerolog.CallerFieldName,
		zerolog.LevelFieldName,
		zerolog.MessageFieldName,
	}
	log.Logger = log.With().Caller().Logger().Output(cw)
}

// SetLevel maps the CLI's integer debug level (0=info, 1=debug, 2+=trace) to
// a zerolog level, matching the teacher's utils.SetLevel.
func SetLevel(level int) {
	switch {
	case level <= 0:
		log.Logger = log.With().Logger().Level(zerolog.InfoLevel)
	case level == 1:
		log.Logger = log.With().Logger().Level(zerolog.DebugLevel)
	default:
		log.Logger = log.With().Logger().Level(zerolog.TraceLevel)
	}
}

func callerMarshal(_ uintptr, file string, line int) string {
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	file = fmt.Sprintf("%15s.%-4s", short, strconv.Itoa(line))
	if len(file) > 20 {
		file = ".." + file[len(file)-18:]
	}
	return colorize(file, colorDarkGray)
}

func formatCaller(i any) string {
	c, _ := i.(string)
	if c == "" {
		return c
	}
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, c); err == nil {
			c = rel
		}
	}
	return colorize(c, colorBold)
}

func formatLevel(i any) string {
	ll, ok := i.(string)
	if !ok {
		return colorize("| ??? |", colorBold)
	}
	switch ll {
	case zerolog.LevelDebugValue:
		return colorize("| DEBUG |", colorYellow)
	case zerolog.LevelInfoValue:
		return colorize("| INFO  |", colorGreen)
	case zerolog.LevelWarnValue:
		return colorize("| WARN  |", colorRed)
	case zerolog.LevelErrorValue:
		return colorize(colorize("| ERROR |", colorRed), colorBold)
	case zerolog.LevelPanicValue:
		return colorize(colorize("| PANIC |", colorRed), colorBold)
	default:
		return strings.ToUpper(fmt.Sprintf("| %5s |", ll))
	}
}
