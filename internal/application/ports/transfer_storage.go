package ports

import (
	"io"
)

type TransferStorage interface {
	// Save writes r as transferName/fileName under the watched directory and returns the absolute path.
	Save(transferName, fileName string, r io.Reader) (string, error)
	// Relative resolves an absolute path against the shared directory root.
	Relative(absPath string) (string, error)
	// Discard removes a transfer directory written by Save.
	Discard(transferName string) error
}
