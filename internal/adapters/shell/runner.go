// Package shell provides a command runner for external tools.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Runner)(nil)

// maxStderrMetadata bounds how much of a failed command's stderr is attached to the error.
const maxStderrMetadata = 4096

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger  ports.Logger
	environ func() []string
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger:  logger,
		environ: os.Environ,
	}
}

// Run executes the command and returns its standard output.
// Standard error is forwarded line by line to the debug log.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmdEnv := resolveEnvironment(r.environ())

	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // binary comes from operator settings
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Env = cmdEnv

	var stdout, stderr bytes.Buffer
	stderrLog := &logWriter{logger: r.logger, prefix: name + ": "}
	cmd.Stdout = &stdout
	cmd.Stderr = &teeWriter{buf: &stderr, log: stderrLog}

	err := cmd.Run()
	_ = stderrLog.Close()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.Wrap(errors.Join(domain.ErrCommandFailed, err), "failed to run "+name)
		wrapped = zerr.With(wrapped, "command", strings.Join(cmd.Args, " "))
		wrapped = zerr.With(wrapped, "exit_code", exitCode)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			if len(msg) > maxStderrMetadata {
				msg = msg[:maxStderrMetadata]
			}
			wrapped = zerr.With(wrapped, "stderr", msg)
		}
		return nil, wrapped
	}

	return stdout.Bytes(), nil
}

type teeWriter struct {
	buf *bytes.Buffer
	log *logWriter
}

func (t *teeWriter) Write(p []byte) (int, error) {
	t.buf.Write(p)
	return t.log.Write(p)
}

type logWriter struct {
	logger ports.Logger
	prefix string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}
	w.logger.Debug(w.prefix + msg)
}

// allowListedEnvVars are the system environment variables passed on to external tools.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"PATH":   {},
	"USER":   {},
	"TMPDIR": {},
}

// resolveEnvironment keeps the allow-listed variables and forces the C locale
// so that tool output does not depend on the operator's locale.
func resolveEnvironment(sysEnv []string) []string {
	envMap := filterSystemEnv(sysEnv)
	envMap["LC_ALL"] = "C"

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	return envMap
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
