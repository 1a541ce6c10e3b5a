// Package admin implements the admin data-mutation actions as typed commands
// dispatched through a single table keyed by action name.
package admin

import (
	"context"
	"net/url"
	"sort"

	"github.com/gin-gonic/gin/binding"

	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/errors"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

// Admin screens an action redirects back to.
const (
	PageLevels    = "rcp-member-levels"
	PageMembers   = "rcp-members"
	PageDiscounts = "rcp-discounts"
	PagePayments  = "rcp-payments"
)

const (
	MsgPermissionDenied = "You do not have permission to perform this action."
	MsgNonceFailed      = "Nonce verification failed."
	MsgSelectMembers    = "Please select at least one member to edit."
)

// MessageParam carries the result code on the redirect.
const MessageParam = "rcp_message"

// Result is where an action ends: an admin page plus query parameters.
type Result struct {
	Page   string
	Params map[string]string
}

func message(page, code string) *Result {
	return &Result{Page: page, Params: map[string]string{MessageParam: code}}
}

// Code returns the result code, if any.
func (r *Result) Code() string {
	if r == nil {
		return ""
	}
	return r.Params[MessageParam]
}

// Request is one submitted admin form or action link.
type Request struct {
	ActorID uint
	Action  string
	Input   url.Values
}

// Command is one admin action.
type Command interface {
	Action() string
	Capability() permission.Capability
	// Nonce returns the token action and the input field carrying it; both
	// are empty when the command needs no anti-forgery token.
	Nonce() (action, field string)
	Execute(ctx context.Context, actorID uint, input url.Values) (*Result, error)
}

// CapabilityChecker answers whether a user holds a capability.
type CapabilityChecker interface {
	Can(ctx context.Context, userID uint, capability permission.Capability) (bool, error)
}

// NonceVerifier checks an anti-forgery token bound to action and user.
type NonceVerifier interface {
	Verify(token, action string, userID uint) error
}

type CommandMetrics interface {
	IncAdminCommand(action, result string)
}

// command adapts a typed handler to Command. The input is decoded from the
// form with `form` tags and validated with `validate` tags; when validation
// fails, invalid picks the result, or the validation error is returned.
type command[I any] struct {
	action      string
	capability  permission.Capability
	nonceAction string
	nonceField  string
	invalid     func(in *I, err error) *Result
	run         func(ctx context.Context, actorID uint, in *I) (*Result, error)
}

func (c *command[I]) Action() string                    { return c.action }
func (c *command[I]) Capability() permission.Capability { return c.capability }
func (c *command[I]) Nonce() (string, string)           { return c.nonceAction, c.nonceField }

func (c *command[I]) Execute(ctx context.Context, actorID uint, input url.Values) (*Result, error) {
	in := new(I)
	if err := binding.MapFormWithTag(in, input, "form"); err != nil {
		return nil, errors.NewBadRequestError("invalid form input", err.Error())
	}
	if err := utils.ValidateStruct(in); err != nil {
		if c.invalid != nil {
			return c.invalid(in, err), nil
		}
		return nil, err
	}
	return c.run(ctx, actorID, in)
}

// Dispatcher routes a request to its command after the nonce and
// capability checks.
type Dispatcher struct {
	commands map[string]Command
	access   CapabilityChecker
	nonces   NonceVerifier
	metrics  CommandMetrics
	logger   logger.Interface
}

// NewDispatcher registers commands by action name. A later command with the
// same name replaces an earlier one. metrics may be nil.
func NewDispatcher(
	access CapabilityChecker,
	nonces NonceVerifier,
	metrics CommandMetrics,
	logger logger.Interface,
	commands ...Command,
) *Dispatcher {
	d := &Dispatcher{
		commands: make(map[string]Command, len(commands)),
		access:   access,
		nonces:   nonces,
		metrics:  metrics,
		logger:   logger,
	}
	for _, c := range commands {
		d.Register(c)
	}
	return d
}

// Register adds or replaces the command for its action.
func (d *Dispatcher) Register(c Command) {
	d.commands[c.Action()] = c
}

func (d *Dispatcher) Actions() []string {
	actions := make([]string, 0, len(d.commands))
	for a := range d.commands {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	return actions
}

// Dispatch runs the command for req.Action. Authorization failures are
// ForbiddenErrors and leave all state untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	cmd, ok := d.commands[req.Action]
	if !ok {
		return nil, errors.NewBadRequestError("unknown admin action", req.Action)
	}

	if nonceAction, field := cmd.Nonce(); nonceAction != "" {
		if err := d.nonces.Verify(req.Input.Get(field), nonceAction, req.ActorID); err != nil {
			d.logger.Warnw("admin action rejected: nonce verification failed",
				"action", req.Action,
				"actor_id", req.ActorID,
				"error", err,
			)
			d.record(req.Action, "nonce_failed")
			return nil, errors.NewForbiddenError(MsgNonceFailed)
		}
	}

	allowed, err := d.access.Can(ctx, req.ActorID, cmd.Capability())
	if err != nil {
		d.logger.Errorw("failed to check admin capability", "error", err, "action", req.Action, "actor_id", req.ActorID)
		return nil, errors.NewInternalError("failed to check permissions")
	}
	if !allowed {
		d.logger.Warnw("admin action rejected: missing capability",
			"action", req.Action,
			"actor_id", req.ActorID,
			"capability", cmd.Capability(),
		)
		d.record(req.Action, "forbidden")
		return nil, errors.NewForbiddenError(MsgPermissionDenied)
	}

	result, err := cmd.Execute(ctx, req.ActorID, req.Input)
	if err != nil {
		d.record(req.Action, "error")
		if !errors.IsAppError(err) {
			d.logger.Errorw("admin action failed", "error", err, "action", req.Action, "actor_id", req.ActorID)
		}
		return nil, err
	}

	d.logger.Infow("admin action completed",
		"action", req.Action,
		"actor_id", req.ActorID,
		"result", result.Code(),
	)
	d.record(req.Action, result.Code())
	return result, nil
}

func (d *Dispatcher) record(action, result string) {
	if d.metrics != nil {
		if result == "" {
			result = "ok"
		}
		d.metrics.IncAdminCommand(action, result)
	}
}
