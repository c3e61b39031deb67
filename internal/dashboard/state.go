package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

type State int

const (
	Unauthenticated State = iota
	Loading
	Ready
	Mutating
	Error
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Mutating:
		return "mutating"
	case Error:
		return "error"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{Unauthenticated, Loading, Ready, Mutating, Error} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown dashboard state %q", text)
}

var (
	ErrBusy         = errors.New("another operation is in progress")
	ErrCancelled    = errors.New("cancelled")
	ErrClosed       = errors.New("dashboard closed")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrUnknownRoom  = errors.New("room not found")
)

// Notifier surfaces outcomes to the user
type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

type discard struct{}

func (discard) Success(string) {}
func (discard) Warn(string)    {}
func (discard) Error(string)   {}

// Confirmer is asked before a destructive call is issued
type Confirmer interface {
	Confirm(ctx context.Context, room models.Room) (bool, error)
}

type ConfirmFunc func(ctx context.Context, room models.Room) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, room models.Room) (bool, error) {
	return f(ctx, room)
}

// AlwaysConfirm approves without asking
var AlwaysConfirm = ConfirmFunc(func(context.Context, models.Room) (bool, error) {
	return true, nil
})
