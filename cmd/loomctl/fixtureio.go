package main

import (
	"errors"

	"go.uber.org/zap"

	"loom/internal/shared/constants"
	"loom/internal/shared/fixture"
)

// loadFixture wraps fixture.LoadFixture. A checksum mismatch is logged under
// the shared checksum-failure error code; the error itself is handed back to
// cobra unchanged.
func loadFixture(path string) (*fixture.HeaderSet, error) {
	hs, err := fixture.LoadFixture(path)
	if err != nil {
		if errors.Is(err, fixture.ErrChecksumMismatch) {
			logger.Error("fixture checksum mismatch",
				zap.String("code", constants.ErrCodeChecksumFailed), zap.String("path", path))
		}
		return nil, err
	}
	return hs, nil
}
