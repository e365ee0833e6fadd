package target

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimitedHandle struct {
	Handle
	limiter *rate.Limiter
}

// NewRateLimited caps writes on h to bytesPerSec. The bucket holds at least one
// block so a full-size write never exceeds the burst.
func NewRateLimited(h Handle, bytesPerSec int64, blockSize int) Handle {
	if bytesPerSec <= 0 {
		return h
	}
	burst := max(int(bytesPerSec), blockSize)
	return &rateLimitedHandle{
		Handle:  h,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), burst),
	}
}

func (r *rateLimitedHandle) Write(p []byte) (int, error) {
	if err := r.limiter.WaitN(context.Background(), len(p)); err != nil {
		return 0, err
	}
	return r.Handle.Write(p)
}
