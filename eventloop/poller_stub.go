//go:build !linux

package eventloop

import "github.com/wenzhang-dev/evgo"

func newIOBackend(*Loop) (ioBackend, error) {
	return nil, evgo.ErrIOUnsupported
}
