package service

import (
	"strings"
	"sync"
	"time"
)

const (
	DefaultOTPLength      = 6
	DefaultResendCooldown = 60 * time.Second
)

// OTPInput models the fixed-length, digits-only verification code field.
type OTPInput struct {
	digits []byte
	focus  int
}

func NewOTPInput(length int) *OTPInput {
	if length <= 0 {
		length = DefaultOTPLength
	}
	return &OTPInput{digits: make([]byte, length)}
}

func (o *OTPInput) Len() int {
	return len(o.digits)
}

// Focus is the index of the cell receiving the next keystroke.
func (o *OTPInput) Focus() int {
	return o.focus
}

// Type writes r into the focused cell and advances. Non-digits are ignored.
func (o *OTPInput) Type(r rune) {
	if r < '0' || r > '9' {
		return
	}
	o.digits[o.focus] = byte(r)
	if o.focus < len(o.digits)-1 {
		o.focus++
	}
}

// Backspace clears the focused cell, or moves back and clears the previous
// one when the focused cell is already empty.
func (o *OTPInput) Backspace() {
	if o.digits[o.focus] != 0 {
		o.digits[o.focus] = 0
		return
	}
	if o.focus > 0 {
		o.focus--
		o.digits[o.focus] = 0
	}
}

// Paste strips non-digits from s and fills the cells from the start.
func (o *OTPInput) Paste(s string) {
	o.Reset()
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if n == len(o.digits) {
			break
		}
		o.digits[n] = byte(r)
		n++
	}
	o.focus = n
	if o.focus > len(o.digits)-1 {
		o.focus = len(o.digits) - 1
	}
}

// Cells returns each cell as a one-character string, "" when empty.
func (o *OTPInput) Cells() []string {
	cells := make([]string, len(o.digits))
	for i, d := range o.digits {
		if d != 0 {
			cells[i] = string(d)
		}
	}
	return cells
}

// Code returns the entered code and whether every cell is filled.
func (o *OTPInput) Code() (string, bool) {
	var b strings.Builder
	for _, d := range o.digits {
		if d == 0 {
			return "", false
		}
		b.WriteByte(d)
	}
	return b.String(), true
}

func (o *OTPInput) Reset() {
	for i := range o.digits {
		o.digits[i] = 0
	}
	o.focus = 0
}

// Cooldown is the resend window of the verification code.
type Cooldown struct {
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	started time.Time
}

// NewCooldown returns a cooldown that allows a resend right away. now may be nil.
func NewCooldown(window time.Duration, now func() time.Time) *Cooldown {
	if window <= 0 {
		window = DefaultResendCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &Cooldown{window: window, now: now}
}

func (c *Cooldown) Restart() {
	c.mu.Lock()
	c.started = c.now()
	c.mu.Unlock()
}

func (c *Cooldown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started.IsZero() {
		return 0
	}
	left := c.window - c.now().Sub(c.started)
	if left < 0 {
		return 0
	}
	return left
}

func (c *Cooldown) CanResend() bool {
	return c.Remaining() == 0
}
