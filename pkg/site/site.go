// Package site assembles the deployable static directory from the template
// directory.
package site

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Config names the template and output directories.
type Config struct {
	TemplateDir string
	OutputDir   string
}

// DefaultConfig matches the repository layout.
func DefaultConfig() Config {
	return Config{TemplateDir: "static", OutputDir: "dist"}
}

// Build replaces OutputDir with a copy of TemplateDir and returns the copied
// files relative to OutputDir, sorted.
func Build(ctx context.Context, cfg Config) ([]string, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	logger := log.With().Str("component", "site").Logger()

	info, err := os.Stat(cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("template dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template dir %s is not a directory", cfg.TemplateDir)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info().Str("dir", cfg.OutputDir).Msg("Preparing output directory")
	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("clear output dir: %w", err)
	}

	logger.Info().Str("from", cfg.TemplateDir).Msg("Copying static files")
	if err := os.CopyFS(cfg.OutputDir, os.DirFS(cfg.TemplateDir)); err != nil {
		return nil, fmt.Errorf("copy static files: %w", err)
	}

	files, err := listFiles(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		logger.Debug().Str("file", f).Msg("Copied")
	}
	logger.Info().Int("files", len(files)).Str("dir", cfg.OutputDir).Msg("Build complete")
	return files, nil
}

// validate rejects output directories whose removal would be destructive.
func validate(cfg Config) error {
	if cfg.TemplateDir == "" {
		return fmt.Errorf("template dir is required")
	}
	out := filepath.Clean(cfg.OutputDir)
	if cfg.OutputDir == "" || out == "." || out == string(filepath.Separator) {
		return fmt.Errorf("refusing to use %q as output dir", cfg.OutputDir)
	}

	absOut, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	absTmpl, err := filepath.Abs(cfg.TemplateDir)
	if err != nil {
		return fmt.Errorf("resolve template dir: %w", err)
	}
	if absOut == absTmpl {
		return fmt.Errorf("output dir %s is the template dir", cfg.OutputDir)
	}
	if within(absOut, absTmpl) {
		return fmt.Errorf("output dir %s contains the template dir", cfg.OutputDir)
	}
	if within(absTmpl, absOut) {
		return fmt.Errorf("output dir %s is inside the template dir", cfg.OutputDir)
	}
	return nil
}

// within reports whether path is base or lies below it.
func within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list output files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
