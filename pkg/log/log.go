// Package log prints human facing status events of the flightdata CLI.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

const windowsOS = "windows"

// Result describes the result of a task.
type Result bool

const (
	// Success means true result.
	Success Result = true
	// Failure means false result.
	Failure Result = false
)

// Colors of term style.
var (
	Yellow    = color.New(color.FgHiYellow, color.Bold).SprintFunc()
	Green     = color.New(color.FgHiGreen, color.Bold).SprintFunc()
	Red       = color.New(color.FgHiRed, color.Bold).SprintFunc()
	Cyan      = color.New(color.FgCyan).SprintFunc()
	WhiteBold = color.New(color.FgWhite, color.Bold).SprintFunc()
)

type status struct {
	name  string
	icon  string
	paint func(a ...interface{}) string
}

var (
	statusSuccess = status{"success", "✅ ", Green}
	statusFailure = status{"failure", "❌ ", Red}
	statusWarning = status{"warning", "⚠️ ", Yellow}
	statusPending = status{"pending", "⌛ ", Cyan}
	statusInfo    = status{"info", "ℹ️ ", WhiteBold}
)

var (
	mu        sync.Mutex
	logAsJSON bool
)

// EnableJSONFormat switches every event to one JSON object per line.
func EnableJSONFormat() { setJSONFormat(true) }

func setJSONFormat(enabled bool) {
	mu.Lock()
	logAsJSON = enabled
	mu.Unlock()
}

func jsonFormat() bool {
	mu.Lock()
	defer mu.Unlock()
	return logAsJSON
}

// SuccessStatusEvent reports on a success event.
func SuccessStatusEvent(w io.Writer, fmtstr string, a ...interface{}) {
	statusEvent(w, statusSuccess, fmt.Sprintf(fmtstr, a...))
}

// FailureStatusEvent reports on a failure event.
func FailureStatusEvent(w io.Writer, fmtstr string, a ...interface{}) {
	statusEvent(w, statusFailure, fmt.Sprintf(fmtstr, a...))
}

// WarningStatusEvent reports on a warning event.
func WarningStatusEvent(w io.Writer, fmtstr string, a ...interface{}) {
	statusEvent(w, statusWarning, fmt.Sprintf(fmtstr, a...))
}

// PendingStatusEvent reports on a pending event.
func PendingStatusEvent(w io.Writer, fmtstr string, a ...interface{}) {
	statusEvent(w, statusPending, fmt.Sprintf(fmtstr, a...))
}

// InfoStatusEvent reports status information on an event.
func InfoStatusEvent(w io.Writer, fmtstr string, a ...interface{}) {
	statusEvent(w, statusInfo, fmt.Sprintf(fmtstr, a...))
}

func statusEvent(w io.Writer, s status, msg string) {
	switch {
	case jsonFormat():
		logJSON(w, s.name, msg)
	case runtime.GOOS == windowsOS:
		fmt.Fprintf(w, "%s\n", msg)
	default:
		fmt.Fprintf(w, "%s %s\n", s.icon, s.paint(msg))
	}
}

// Spinner shows a spinner on w until the returned func reports the result.
// Only the first report is printed.
func Spinner(w io.Writer, fmtstr string, a ...interface{}) func(result Result) {
	msg := fmt.Sprintf(fmtstr, a...)
	var once sync.Once
	var s *spinner.Spinner

	switch {
	case jsonFormat():
		logJSON(w, statusPending.name, msg)
	case runtime.GOOS == windowsOS:
		fmt.Fprintf(w, "%s\n", msg)
	default:
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
		s.Suffix = "  " + msg
		_ = s.Color("cyan")
		s.Start()
	}

	return func(result Result) {
		once.Do(func() {
			if s != nil {
				s.Stop()
			}
			if result {
				SuccessStatusEvent(w, "%s", msg)
			} else {
				FailureStatusEvent(w, "%s", msg)
			}
		})
	}
}

func logJSON(w io.Writer, status, message string) {
	type jsonLog struct {
		Time    time.Time `json:"time"`
		Status  string    `json:"status"`
		Message string    `json:"msg"`
	}

	jsonBytes, err := json.Marshal(&jsonLog{
		Time:    time.Now().UTC(),
		Status:  status,
		Message: message,
	})
	if err != nil {
		fmt.Fprintln(w, message)
		return
	}

	fmt.Fprintf(w, "%s\n", jsonBytes)
}
