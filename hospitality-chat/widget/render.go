package widget

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimeLayout prints markers the way an en-US browser shows a local time.
const DefaultTimeLayout = "3:04:05 PM"

// Renderer appends nodes to a message list. Implementations only draw; every
// decision about what to draw is made by Session.
type Renderer interface {
	Marker(at time.Time) error
	ServerMessage(role, initials string, g Gradient, markdown string) error
	UserMessage(text string) error
	// Flush brings the newest node into view.
	Flush() error
}

// Apply performs the planned instructions in order.
func Apply(r Renderer, plan []Instruction) error {
	for _, in := range plan {
		var err error
		switch in.Kind {
		case KindMarker:
			err = r.Marker(in.At)
		case KindServerMessage:
			err = r.ServerMessage(in.Role, in.Initials, in.Gradient, in.Content)
		case KindUserMessage:
			err = r.UserMessage(in.Content)
		case KindScroll:
			err = r.Flush()
		default:
			err = fmt.Errorf("unknown instruction kind %d", in.Kind)
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", in.Kind, err)
		}
	}
	return nil
}

// MultiRenderer fans every node out to several renderers.
type MultiRenderer []Renderer

func (m MultiRenderer) Marker(at time.Time) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Marker(at))
	}
	return errors.Join(errs...)
}

func (m MultiRenderer) ServerMessage(role, initials string, g Gradient, markdown string) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.ServerMessage(role, initials, g, markdown))
	}
	return errors.Join(errs...)
}

func (m MultiRenderer) UserMessage(text string) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.UserMessage(text))
	}
	return errors.Join(errs...)
}

func (m MultiRenderer) Flush() error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Flush())
	}
	return errors.Join(errs...)
}
