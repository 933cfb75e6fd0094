//go:build !whispercpp

package recognizer

import (
	"errors"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
)

// ErrWhisperCppUnavailable is returned when the binary was built without cgo bindings.
var ErrWhisperCppUnavailable = errors.New("whispercpp backend not compiled in, rebuild with -tags whispercpp")

func newWhisperCpp(logger.Logger, config.WhisperConfig) (Recognizer, error) {
	return nil, ErrWhisperCppUnavailable
}
