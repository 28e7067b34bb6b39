package gather

import (
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/pathguard"
)

// readSourceFile resolves a configured file inside root and reads it. Escaping
// paths, missing files and unreadable files are logged and reported as false.
func readSourceFile(root, file string, logger *zap.Logger) ([]string, bool) {
	path, err := pathguard.Resolve(file, root)
	if err != nil {
		if errors.Is(err, pathguard.ErrOutsideRoot) {
			logger.Warn("path escapes project directory", zap.String("path", file))
		} else {
			logger.Warn("cannot resolve path", zap.String("path", file), zap.Error(err))
		}
		return nil, false
	}

	lines, err := readLines(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("file not found", zap.String("path", file))
		} else {
			logger.Warn("cannot read file", zap.String("path", file), zap.Error(err))
		}
		return nil, false
	}

	return lines, true
}
