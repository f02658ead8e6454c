package fastoverlay

import (
	"io"

	"charm.land/log/v2"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
