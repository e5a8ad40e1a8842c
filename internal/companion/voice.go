package companion

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// VoiceState is the voice session state.
type VoiceState int

const (
	StateIdle VoiceState = iota
	StateListening
	StateProcessing
	StateSpeaking
)

func (s VoiceState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}

// ErrSessionActive is returned by Start while a session is not idle.
// Re-entrancy is a transition guard, not a flag.
var ErrSessionActive = errors.New("voice: session already active")

// VoiceConfig holds the session timings.
type VoiceConfig struct {
	// SilenceTimeout auto-stops a listening session with no transcript.
	SilenceTimeout time.Duration
	// DebounceDelay is how long after the last transcript fragment the
	// session decides the user stopped talking and submits.
	DebounceDelay time.Duration
	// ReplyTimeout bounds the remote reply + synthesis work.
	ReplyTimeout time.Duration
}

// DefaultVoiceConfig matches the journaling UI timings.
func DefaultVoiceConfig() VoiceConfig {
	return VoiceConfig{
		SilenceTimeout: 5 * time.Second,
		DebounceDelay:  2 * time.Second,
		ReplyTimeout:   30 * time.Second,
	}
}

// responder produces a companion reply for a transcript.
// Satisfied by *Companion.
type responder interface {
	Reply(ctx context.Context, userText string) (string, error)
}

// VoiceSession drives the IDLE -> LISTENING -> PROCESSING -> SPEAKING ->
// IDLE contract around transcript input. Timers are explicit cancellable
// callbacks; every transition is checked under the lock.
type VoiceSession struct {
	mu        sync.Mutex
	state     VoiceState
	companion responder
	tts       TTSClient // nil disables the speaking phase
	cfg       VoiceConfig
	log       *zap.Logger

	pending       string
	silenceTimer  *time.Timer
	debounceTimer *time.Timer

	// OnReply receives the companion reply and synthesized audio (nil when
	// synthesis is disabled or failed). Called outside the lock.
	OnReply func(text string, audio []byte)
}

// NewVoiceSession creates an idle session.
func NewVoiceSession(c responder, tts TTSClient, cfg VoiceConfig, log *zap.Logger) *VoiceSession {
	if cfg.SilenceTimeout <= 0 {
		cfg = DefaultVoiceConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &VoiceSession{
		companion: c,
		tts:       tts,
		cfg:       cfg,
		log:       log,
	}
}

// State returns the current session state.
func (v *VoiceSession) State() VoiceState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Start begins listening. Only the IDLE -> LISTENING transition is legal;
// anything else is rejected.
func (v *VoiceSession) Start() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateIdle {
		return ErrSessionActive
	}
	v.state = StateListening
	v.pending = ""
	v.armSilenceLocked()
	return nil
}

// Transcript feeds a recognized fragment. Ignored outside LISTENING. Each
// fragment resets both the silence timeout and the submit debounce.
func (v *VoiceSession) Transcript(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateListening {
		return
	}
	v.pending = text
	v.armSilenceLocked()
	v.armDebounceLocked()
}

// Stop ends listening early. A pending transcript is submitted; otherwise
// the session returns to IDLE. No-op outside LISTENING.
func (v *VoiceSession) Stop() {
	v.mu.Lock()

	if v.state != StateListening {
		v.mu.Unlock()
		return
	}
	if v.pending == "" {
		v.cancelTimersLocked()
		v.state = StateIdle
		v.mu.Unlock()
		return
	}
	v.submitLocked()
}

// armSilenceLocked (re)arms the silence auto-stop.
func (v *VoiceSession) armSilenceLocked() {
	if v.silenceTimer != nil {
		v.silenceTimer.Stop()
	}
	v.silenceTimer = time.AfterFunc(v.cfg.SilenceTimeout, v.onSilence)
}

// armDebounceLocked (re)arms the stopped-talking debounce.
func (v *VoiceSession) armDebounceLocked() {
	if v.debounceTimer != nil {
		v.debounceTimer.Stop()
	}
	v.debounceTimer = time.AfterFunc(v.cfg.DebounceDelay, v.onDebounce)
}

func (v *VoiceSession) cancelTimersLocked() {
	if v.silenceTimer != nil {
		v.silenceTimer.Stop()
		v.silenceTimer = nil
	}
	if v.debounceTimer != nil {
		v.debounceTimer.Stop()
		v.debounceTimer = nil
	}
}

func (v *VoiceSession) onSilence() {
	v.mu.Lock()
	if v.state != StateListening {
		v.mu.Unlock()
		return
	}
	if v.pending == "" {
		v.cancelTimersLocked()
		v.state = StateIdle
		v.mu.Unlock()
		return
	}
	v.submitLocked()
}

func (v *VoiceSession) onDebounce() {
	v.mu.Lock()
	if v.state != StateListening || v.pending == "" {
		v.mu.Unlock()
		return
	}
	v.submitLocked()
}

// submitLocked performs LISTENING -> PROCESSING and runs the blocking work
// off the lock. Callers hold v.mu; it is released here.
func (v *VoiceSession) submitLocked() {
	transcript := v.pending
	v.pending = ""
	v.cancelTimersLocked()
	v.state = StateProcessing
	v.mu.Unlock()

	go v.process(transcript)
}

func (v *VoiceSession) process(transcript string) {
	ctx, cancel := context.WithTimeout(context.Background(), v.cfg.ReplyTimeout)
	defer cancel()

	reply, err := v.companion.Reply(ctx, transcript)
	if err != nil {
		v.log.Warn("voice: reply failed", zap.Error(err))
		v.setState(StateIdle)
		return
	}

	var audio []byte
	if v.tts != nil {
		v.setState(StateSpeaking)
		audio, err = v.tts.Synthesize(ctx, reply)
		if err != nil {
			// Silent companion is fine; the text still arrives.
			v.log.Warn("voice: synthesis failed", zap.Error(err))
			audio = nil
		}
	}

	v.setState(StateIdle)

	if v.OnReply != nil {
		v.OnReply(reply, audio)
	}
}

func (v *VoiceSession) setState(s VoiceState) {
	v.mu.Lock()
	v.state = s
	v.mu.Unlock()
}
