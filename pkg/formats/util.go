package formats

import (
	"bufio"
	"io"
)

func bufio2Peek(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReaderSize(r, peekSize)
}
