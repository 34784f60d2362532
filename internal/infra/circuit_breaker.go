package infra

import (
	"errors"
	"net/textproto"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrCircuitOpen is returned by Execute while the SMTP circuit is open.
var ErrCircuitOpen = errors.New("smtp circuit open")

// CBState is where the SMTP circuit currently is.
type CBState uint8

const (
	CBClosed   CBState = iota // sends flow to the relay
	CBOpen                    // fast-fail until the cooldown elapses
	CBHalfOpen                // one probe send allowed through
)

func (s CBState) String() string {
	switch s {
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreakerConfig tunes the SMTP circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is how many transient delivery failures in a row
	// open the circuit. Permanent SMTP rejects (5xx replies) never count
	// toward it: the relay answered, the message itself is undeliverable.
	FailureThreshold int
	// Cooldown is how long the circuit stays open before a probe send is
	// allowed through.
	Cooldown time.Duration
}

// DefaultCBConfig returns the defaults used for the SMTP relay.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		Cooldown:         time.Minute,
	}
}

// CircuitBreaker guards the SMTP relay so a dead relay fails fast instead
// of stalling every email worker on connection timeouts.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time // swappable in tests

	mu       sync.Mutex
	strikes  int       // consecutive transient failures while closed
	openedAt time.Time // zero while closed
	probing  bool      // a half-open probe is in flight
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// State reports the current circuit state, for health checks and logs.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	switch {
	case cb.openedAt.IsZero():
		return CBClosed
	case cb.now().Sub(cb.openedAt) < cb.cfg.Cooldown:
		return CBOpen
	default:
		return CBHalfOpen
	}
}

// Execute runs send through the circuit. While open it fails immediately
// with ErrCircuitOpen; in half-open only a single probe goes through and
// its outcome decides whether the circuit closes or re-arms the cooldown.
func (cb *CircuitBreaker) Execute(send func() error) error {
	isProbe := false

	cb.mu.Lock()
	switch cb.stateLocked() {
	case CBOpen:
		cb.mu.Unlock()
		return ErrCircuitOpen
	case CBHalfOpen:
		if cb.probing {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.probing = true
		isProbe = true
	}
	cb.mu.Unlock()

	err := send()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if isProbe {
		cb.probing = false
	}

	if err == nil || isPermanentSMTPReject(err) {
		if !cb.openedAt.IsZero() {
			log.Info().Msg("smtp relay recovered, circuit closed")
		}
		cb.strikes = 0
		cb.openedAt = time.Time{}
		return err
	}

	if isProbe {
		// Failed probe re-arms the cooldown.
		cb.openedAt = cb.now()
		log.Warn().Err(err).Msg("smtp probe failed, circuit re-opened")
		return err
	}

	cb.strikes++
	if cb.strikes >= cb.cfg.FailureThreshold && cb.openedAt.IsZero() {
		cb.openedAt = cb.now()
		log.Warn().Err(err).Int("strikes", cb.strikes).Msg("smtp circuit opened")
	}
	return err
}

// isPermanentSMTPReject reports whether err is a definitive 5xx reply from
// the relay. Anything else (dial errors, timeouts, 4xx throttling) is
// treated as transient and counts toward opening the circuit.
func isPermanentSMTPReject(err error) bool {
	var reply *textproto.Error
	return errors.As(err, &reply) && reply.Code >= 500 && reply.Code < 600
}
