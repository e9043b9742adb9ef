package services

import "errors"

// The sign-in flow is a closed set of typed steps:
//
//	signIn -> otpPending(email) -> {verify(salt) | setPassword} -> continue
//
// Each state carries exactly the data its screen needs, and transitions that
// are not listed fail instead of silently jumping steps.

var ErrInvalidTransition = errors.New("invalid gate transition")

type GateState interface {
	Step() string
}

// GateSignIn is the entry state: no identity yet.
type GateSignIn struct{}

// GateOTPPending means a one-time code was mailed to Email.
type GateOTPPending struct {
	Email string
}

// GateVerify prompts a returning user for the gate password; Salt is what
// the client hashes with.
type GateVerify struct {
	Salt string
}

// GateSetPassword prompts a first-time user to choose a gate password.
type GateSetPassword struct{}

// GateContinue means both auth layers are complete.
type GateContinue struct{}

func (GateSignIn) Step() string      { return "signIn" }
func (GateOTPPending) Step() string  { return "otpPending" }
func (GateVerify) Step() string      { return "verify" }
func (GateSetPassword) Step() string { return "setPassword" }
func (GateContinue) Step() string    { return "continue" }

type Gate struct {
	state GateState
}

func NewGate() *Gate {
	return &Gate{state: GateSignIn{}}
}

func (g *Gate) State() GateState {
	return g.state
}

func (g *Gate) Step() string {
	return g.state.Step()
}

// RequestOTP records that a code was sent to email.
func (g *Gate) RequestOTP(email string) error {
	if _, ok := g.state.(GateSignIn); !ok {
		return ErrInvalidTransition
	}
	g.state = GateOTPPending{Email: email}
	return nil
}

// IdentityConfirmed advances once the platform identity is established,
// either by a verified code or by anonymous sign-in (which skips the OTP
// step). Where it lands depends on whether a gate password already exists.
func (g *Gate) IdentityConfirmed(hasPassword bool, salt string) error {
	switch g.state.(type) {
	case GateSignIn, GateOTPPending:
	default:
		return ErrInvalidTransition
	}

	if hasPassword {
		g.state = GateVerify{Salt: salt}
	} else {
		g.state = GateSetPassword{}
	}
	return nil
}

// PasswordVerified completes the gate for a returning user.
func (g *Gate) PasswordVerified() error {
	if _, ok := g.state.(GateVerify); !ok {
		return ErrInvalidTransition
	}
	g.state = GateContinue{}
	return nil
}

// PasswordSet completes the gate for a first-time user.
func (g *Gate) PasswordSet() error {
	if _, ok := g.state.(GateSetPassword); !ok {
		return ErrInvalidTransition
	}
	g.state = GateContinue{}
	return nil
}

// GateFor reconstructs the step an already-running session is at, for the
// session endpoint.
func GateFor(authenticated, gatePassed, hasPassword bool, salt string) *Gate {
	g := NewGate()
	if !authenticated {
		return g
	}
	_ = g.IdentityConfirmed(hasPassword, salt)
	if gatePassed {
		g.state = GateContinue{}
	}
	return g
}
