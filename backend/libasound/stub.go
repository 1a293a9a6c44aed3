//go:build !cgo || !libasound

package libasound

import (
	"fmt"

	"github.com/gen2brain/alsasync"
)

func newDriver() (driver, error) {
	return nil, fmt.Errorf("%w: libasound support requires cgo and the libasound build tag", alsasync.ErrBackendUnavailable)
}
