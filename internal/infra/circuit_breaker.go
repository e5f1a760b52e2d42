package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Guards the SMTP relay: after repeated failures e-mail jobs fail fast and go
// to the dead-letter queue instead of hammering a relay that is down.
//
//   closed    -> calls pass through, consecutive failures are counted
//   open      -> calls fail with ErrCircuitOpen until OpenTimeout elapses
//   half-open -> calls pass; SuccessThreshold successes close it, one failure reopens it

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

var ErrCircuitOpen = errors.New("circuit breaker aberto")

type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

// SMTPBreakerConfig is tuned for a relay that usually recovers within minutes.
func SMTPBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "smtp",
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      2 * time.Minute,
	}
}

type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      CircuitBreakerConfig
	state    CBState
	falhas   int
	sucessos int
	abertoEm time.Time
	now      func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed, now: time.Now}
}

func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.talvezMeioAberto()
	return cb.state
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	cb.talvezMeioAberto()
	if cb.state == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.registrarFalha()
	} else {
		cb.registrarSucesso()
	}
	return err
}

// must hold mu
func (cb *CircuitBreaker) talvezMeioAberto() {
	if cb.state == CBOpen && cb.now().Sub(cb.abertoEm) >= cb.cfg.OpenTimeout {
		cb.mudar(CBHalfOpen)
	}
}

// must hold mu
func (cb *CircuitBreaker) registrarFalha() {
	cb.falhas++
	if cb.state == CBHalfOpen || cb.falhas >= cb.cfg.FailureThreshold {
		cb.abertoEm = cb.now()
		cb.mudar(CBOpen)
	}
}

// must hold mu
func (cb *CircuitBreaker) registrarSucesso() {
	if cb.state != CBHalfOpen {
		cb.falhas = 0
		return
	}
	cb.sucessos++
	if cb.sucessos >= cb.cfg.SuccessThreshold {
		cb.mudar(CBClosed)
	}
}

func (cb *CircuitBreaker) mudar(novo CBState) {
	if cb.state == novo {
		return
	}
	log.Warn().
		Str("breaker", cb.cfg.Name).
		Str("de", cb.state.String()).
		Str("para", novo.String()).
		Msg("circuit breaker mudou de estado")
	cb.state = novo
	cb.falhas = 0
	cb.sucessos = 0
}
