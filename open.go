package skipgram

import (
	"io"
	"os"
)

// Open is the single entry point for reading corpus artifacts.
func Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}
