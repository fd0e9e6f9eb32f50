package dotini

import (
	"os"
	"os/user"
	"runtime"
	"strconv"
	"time"

	"github.com/samber/lo"
)

// DefaultContext returns a snapshot of process facts for $[NAME] references:
// HOSTNAME, USER, HOME, SHELL, PWD, GOOS, GOARCH, PID, EXECUTABLE and
// REQUEST_TIME (Unix seconds). Facts that cannot be determined are omitted.
func DefaultContext() map[string]string {
	vars := map[string]string{
		"HOSTNAME":     "",
		"USER":         os.Getenv("USER"),
		"HOME":         os.Getenv("HOME"),
		"SHELL":        os.Getenv("SHELL"),
		"PWD":          "",
		"GOOS":         runtime.GOOS,
		"GOARCH":       runtime.GOARCH,
		"PID":          strconv.Itoa(os.Getpid()),
		"EXECUTABLE":   "",
		"REQUEST_TIME": strconv.FormatInt(time.Now().Unix(), 10),
	}

	if h, err := os.Hostname(); err == nil {
		vars["HOSTNAME"] = h
	}

	if u, err := user.Current(); err == nil {
		vars["USER"] = lo.CoalesceOrEmpty(vars["USER"], u.Username)
		vars["HOME"] = lo.CoalesceOrEmpty(vars["HOME"], u.HomeDir)
	}

	if wd, err := os.Getwd(); err == nil {
		vars["PWD"] = wd
	}

	if exe, err := os.Executable(); err == nil {
		vars["EXECUTABLE"] = exe
	}

	return lo.OmitByValues(vars, []string{""})
}
