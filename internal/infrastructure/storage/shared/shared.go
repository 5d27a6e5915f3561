package shared

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"preservation-api/config"
	"preservation-api/internal/application/ports"
)

const (
	dirPerm  os.FileMode = 0o777
	filePerm os.FileMode = 0o666
)

var (
	ErrInvalidName    = errors.New("invalid transfer or file name")
	ErrOutsideShared  = errors.New("path is outside the shared directory")
	ErrAlreadyExisted = errors.New("file already exists")
)

// Client writes uploads where the pipeline's watched directory picks them up.
// The pipeline runs as a different user, so everything is left world-writable.
type Client struct {
	logger     *zap.Logger
	sharedDir  string
	watchedDir string
}

func New(logger *zap.Logger, cfg config.Storage) (ports.TransferStorage, error) {
	shared, err := filepath.Abs(cfg.SharedDir)
	if err != nil {
		return nil, fmt.Errorf("shared dir: %w", err)
	}
	watched, err := filepath.Abs(cfg.WatchedDir)
	if err != nil {
		return nil, fmt.Errorf("watched dir: %w", err)
	}
	if _, err = relativeTo(shared, watched); err != nil {
		return nil, fmt.Errorf("watched dir %s: %w", watched, err)
	}
	if err = os.MkdirAll(watched, dirPerm); err != nil {
		return nil, fmt.Errorf("create watched dir: %w", err)
	}

	return &Client{
		logger:     logger.With(zap.String("component", "shared_storage")),
		sharedDir:  shared,
		watchedDir: watched,
	}, nil
}

func (c *Client) Save(transferName, fileName string, r io.Reader) (string, error) {
	if !plainName(transferName) || !plainName(fileName) {
		return "", ErrInvalidName
	}

	dir := filepath.Join(c.watchedDir, transferName)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create transfer dir: %w", err)
	}
	// MkdirAll is subject to umask
	if err := os.Chmod(dir, dirPerm); err != nil {
		return "", fmt.Errorf("chmod transfer dir: %w", err)
	}

	p := filepath.Join(dir, fileName)
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", ErrAlreadyExisted
		}
		return "", fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err = os.Chmod(p, filePerm); err != nil {
		return "", fmt.Errorf("chmod file: %w", err)
	}

	c.logger.Info("upload stored", zap.String("path", p), zap.Int64("bytes", n))

	return p, nil
}

func (c *Client) Discard(transferName string) error {
	if !plainName(transferName) {
		return ErrInvalidName
	}
	if err := os.RemoveAll(filepath.Join(c.watchedDir, transferName)); err != nil {
		return fmt.Errorf("remove transfer dir: %w", err)
	}
	c.logger.Info("transfer dir discarded", zap.String("transfer", transferName))

	return nil
}

func (c *Client) Relative(absPath string) (string, error) {
	return relativeTo(c.sharedDir, absPath)
}

func relativeTo(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideShared
	}
	return rel, nil
}

func plainName(s string) bool {
	return s != "" && s != "." && s != ".." && filepath.Base(s) == s && !strings.ContainsRune(s, filepath.Separator)
}
