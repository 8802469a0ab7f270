// Package fingerprint produces a per-process device identifier used to
// correlate OTP requests for rate limiting. It is neither cryptographically
// strong nor persisted across restarts; it is a correlation hint, not
// device attestation.
package fingerprint

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"
)

const prefix = "devfp_"

// Provider generates the identifier once and returns the cached value on
// every subsequent call. Construct one per process and pass it by reference.
type Provider struct {
	once  sync.Once
	value string
}

// NewProvider creates an empty provider; the identifier is generated lazily
// on the first Get call.
func NewProvider() *Provider {
	return &Provider{}
}

// Get returns the memoized fingerprint, generating it on first use
func (p *Provider) Get() string {
	p.once.Do(func() {
		p.value = prefix + randomBase36(10) + "_" + strconv.FormatInt(time.Now().UnixMilli(), 36)
	})
	return p.value
}

func randomBase36(length int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	out := make([]byte, length)
	maxIdx := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, maxIdx)
		if err != nil {
			// crypto/rand failure means the process has bigger problems;
			// fall back to a time-derived digit rather than panic
			out[i] = alphabet[time.Now().UnixNano()%int64(len(alphabet))]
			continue
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}

// String implements fmt.Stringer for logging
func (p *Provider) String() string {
	return fmt.Sprintf("fingerprint.Provider(%s)", p.Get())
}
