package middleware

import (
	"net/http"

	"github.com/NYTimes/gziphandler"
)

// Compress gzips responses of at least minSize bytes for clients that accept
// it. A non-positive minSize uses the gziphandler default.
func Compress(minSize int) (func(http.Handler) http.Handler, error) {
	if minSize <= 0 {
		minSize = gziphandler.DefaultMinSize
	}
	wrapper, err := gziphandler.GzipHandlerWithOpts(gziphandler.MinSize(minSize))
	if err != nil {
		return nil, err
	}
	return func(next http.Handler) http.Handler {
		return wrapper(next)
	}, nil
}
