// Package wallpaper applies a wallpaper directory by handing its images to an
// external setter such as feh.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

// DisplayModes are the accepted display modes, passed as --bg-<mode>.
var DisplayModes = []string{"center", "fill", "max", "scale", "tile"}

// imageExtensions are matched case-insensitively.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tiff", ".tif"}

// Applier sets the wallpaper from a directory.
type Applier interface {
	Apply(ctx context.Context, dir string, displayMode string) error
}

// Runner starts an external command and waits for it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args and includes its combined output in the error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Setter applies wallpapers through an external command.
type Setter struct {
	Command string
	Runner  Runner
	Log     logrus.FieldLogger
}

// Ensure Setter implements Applier at compile time.
var _ Applier = (*Setter)(nil)

const defaultCommand = "feh"

// NewSetter returns a Setter that runs command (feh when empty) via os/exec.
func NewSetter(command string, logger logrus.FieldLogger) *Setter {
	if strings.TrimSpace(command) == "" {
		command = defaultCommand
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Setter{Command: command, Runner: ExecRunner{}, Log: logger}
}

// Apply picks the images in dir and invokes the setter with --randomize. A
// missing directory or one without images is logged and is not an error; the
// current wallpaper simply stays.
func (s *Setter) Apply(ctx context.Context, dir string, displayMode string) error {
	log := s.Log.WithField("dir", dir)

	images, err := ListImages(dir)
	if err != nil {
		log.WithError(err).Warn("wallpaper directory unavailable, keeping current wallpaper")
		return nil
	}
	if len(images) == 0 {
		log.Info("no images found in directory, keeping current wallpaper")
		return nil
	}

	args := append([]string{"--bg-" + displayMode, "--randomize"}, images...)
	log.WithField("images", len(images)).Info("setting wallpaper")
	if err := s.Runner.Run(ctx, s.Command, args...); err != nil {
		return fmt.Errorf("run wallpaper command: %w", err)
	}
	return nil
}

// ListImages returns the regular files in dir with a recognised image
// extension, sorted by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("directory %s does not exist: %w", dir, err)
		}
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !slices.Contains(imageExtensions, ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !isRegularFile(entry, path) {
			continue
		}
		images = append(images, path)
	}
	return images, nil
}

// isRegularFile follows symlinks so linked images count.
func isRegularFile(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
