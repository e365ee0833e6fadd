// Package source produces the blocks written to every target.
package source

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"

	"github.com/tanq16/diskdestroyer/internal/utils"
)

type GeneratorInitError struct {
	Err error
}

func (e *GeneratorInitError) Error() string {
	return fmt.Sprintf("error seeding random generator: %v", e.Err)
}

func (e *GeneratorInitError) Unwrap() error {
	return e.Err
}

// ByteSource owns a single buffer that is refilled in place on every call to
// Fill. Slices returned by Fill are only valid until the next call.
type ByteSource struct {
	buf    []byte
	policy utils.FillPolicy
	rng    *mrand.ChaCha8
}

// seedReader is swapped in tests to simulate an unavailable entropy source.
var seedReader = rand.Read

func New(policy utils.FillPolicy, size int) (*ByteSource, error) {
	if size < 1 {
		return nil, utils.ErrInvalidBlockSize
	}
	s := &ByteSource{
		buf:    make([]byte, size),
		policy: policy,
	}
	if policy == utils.FillRandom {
		var seed [32]byte
		if _, err := seedReader(seed[:]); err != nil {
			return nil, &GeneratorInitError{Err: err}
		}
		s.rng = mrand.NewChaCha8(seed)
	}
	return s, nil
}

func (s *ByteSource) Fill() []byte {
	if s.policy == utils.FillRandom {
		// ChaCha8.Read always fills the whole slice and never errors
		s.rng.Read(s.buf)
	}
	return s.buf
}

func (s *ByteSource) Size() int {
	return len(s.buf)
}

func (s *ByteSource) Policy() utils.FillPolicy {
	return s.policy
}
