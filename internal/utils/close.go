package utils

import (
	"io"

	"github.com/MrSnakeDoc/marks/internal/logger"
)

// CloseLogged closes c and logs a failure under name.
func CloseLogged(c io.Closer, log logger.Logger, name string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", name), logger.Error(err))
		return
	}
	log.Debug("closed", logger.String("resource", name))
}
