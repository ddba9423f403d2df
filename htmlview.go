// Package htmlview locates HTML views by controller and action and renders
// their {placeholder} tokens from a model.
package htmlview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golazy.dev/htmlview/placeholder"
)

const (
	// DefaultRoot is the directory, relative to the application base, that
	// holds every view.
	DefaultRoot = "Views"

	// Ext is the only extension a view may have.
	Ext = ".html"
)

var (
	ErrInvalidInput        = errors.New("htmlview: invalid input")
	ErrUnsupportedFileType = errors.New("htmlview: unsupported file type")
	ErrViewNotFound        = errors.New("htmlview: view not found")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NotFoundError carries the path that was tried.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("htmlview: no html file at %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrViewNotFound }

type Views struct {
	FS fs.FS

	// Root is the views directory inside FS. Defaults to DefaultRoot.
	Root string

	// BaseDir is the directory FS was opened on, if any. Only used by Abs.
	BaseDir string

	Logger *slog.Logger
}

// New returns views read from <baseDir>/Views on disk.
func New(baseDir string) *Views {
	return &Views{
		FS:      os.DirFS(baseDir),
		Root:    DefaultRoot,
		BaseDir: baseDir,
	}
}

func (v *Views) root() string {
	if v.Root == "" {
		return DefaultRoot
	}
	return v.Root
}

func (v *Views) logger() *slog.Logger {
	if v.Logger == nil {
		return discardLogger
	}
	return v.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Abs returns the operating system path of a resolved file.
func (v *Views) Abs(file string) string {
	return filepath.Join(v.BaseDir, filepath.FromSlash(file))
}

// Resolve returns the path of the view inside FS.
// A non empty relPath overrides the controller/action convention. It may omit
// the .html extension but must not carry any other.
func (v *Views) Resolve(controller, action, relPath string) (string, error) {
	file, err := v.buildPath(controller, action, relPath)
	if err != nil {
		return "", err
	}

	info, err := fs.Stat(v.FS, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Path: file}
		}
		return "", fmt.Errorf("htmlview: stat %s: %w", file, err)
	}
	if info.IsDir() {
		return "", &NotFoundError{Path: file}
	}

	v.logger().Debug("view resolved", "controller", controller, "action", action, "path", relPath, "file", file)
	return file, nil
}

func (v *Views) buildPath(controller, action, relPath string) (string, error) {
	if relPath != "" {
		if !isRelativePath(relPath) {
			return "", fmt.Errorf("%w: %q is not a well formed relative path", ErrInvalidInput, relPath)
		}
		switch ext := path.Ext(relPath); ext {
		case "":
			relPath += Ext
		case Ext:
		default:
			return "", fmt.Errorf("%w: %q, only %s files can be used", ErrUnsupportedFileType, ext, Ext)
		}
		return path.Join(v.root(), relPath), nil
	}

	if action == "" {
		return "", fmt.Errorf("%w: no action or path defined", ErrInvalidInput)
	}
	for _, name := range []string{controller, action} {
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return "", fmt.Errorf("%w: %q is not a valid view name", ErrInvalidInput, name)
		}
	}
	return path.Join(v.root(), controller, action+Ext), nil
}

// isRelativePath reports whether p is a slash separated path that stays below
// the views root.
func isRelativePath(p string) bool {
	if strings.ContainsAny(p, "\\ \t\r\n") {
		return false
	}
	u, err := url.Parse(p)
	if err != nil {
		return false
	}
	if u.Scheme != "" || u.Host != "" || u.Opaque != "" || u.RawQuery != "" || u.Fragment != "" || u.ForceQuery {
		return false
	}
	return fs.ValidPath(p) && p != "."
}

// Read returns the text of a resolved file. Files are read on every call.
func (v *Views) Read(ctx context.Context, file string) (string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	data, err := fs.ReadFile(v.FS, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Path: file}
		}
		return "", fmt.Errorf("htmlview: read %s: %w", file, err)
	}
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}

// Render writes the view described by opts to opts.Writer.
func (v *Views) Render(opts Options) error {
	if opts.Writer == nil {
		return fmt.Errorf("%w: no writer", ErrInvalidInput)
	}
	content, err := v.RenderString(opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(opts.Writer, content)
	return err
}

// RenderString returns the rendered view described by opts.
func (v *Views) RenderString(opts Options) (string, error) {
	content, err := v.render(opts)
	if err != nil {
		v.logger().Debug("view render failed", "controller", opts.Controller, "action", opts.Action, "path", opts.Path, "error", err)
	}
	return content, err
}

func (v *Views) render(opts Options) (string, error) {
	file, err := v.Resolve(ControllerName(opts.Controller), opts.Action, opts.Path)
	if err != nil {
		return "", err
	}
	content, err := v.Read(opts.Ctx, file)
	if err != nil {
		return "", err
	}
	if opts.Model == nil {
		return content, nil
	}
	out, err := placeholder.Render(content, opts.Model)
	if err != nil {
		return "", fmt.Errorf("htmlview: render %s: %w", file, err)
	}
	return out, nil
}

// Options is the set of options to render a view.
type Options struct {
	Ctx    context.Context
	Writer io.Writer

	// Controller names the views subdirectory. A trailing "Controller" is removed.
	Controller string

	// Action is the view file name without extension.
	Action string

	// Path, when set, overrides Controller and Action. It is relative to the
	// views root and may omit the .html extension.
	Path string

	// Model supplies placeholder values. When nil the file is returned as is.
	Model placeholder.Model
}
