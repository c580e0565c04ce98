// Package cmd is the transport-agnostic command core shared by the Discord
// bot and the operator CLI. A command has a name, a description and a Run
// method; adapters decide how it is registered and what Invocation.Data holds.
package cmd

import "context"

// Invocation is the input handed to a command. Args carries positional
// arguments for text transports; Data carries the adapter's own context.
type Invocation struct {
	Args []string
	Data any
}

type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// Func adapts a plain function into a Command.
type Func struct {
	CommandName        string
	CommandDescription string
	RunFunc            func(ctx context.Context, inv *Invocation) error
}

func (f *Func) Name() string        { return f.CommandName }
func (f *Func) Description() string { return f.CommandDescription }

func (f *Func) Run(ctx context.Context, inv *Invocation) error {
	return f.RunFunc(ctx, inv)
}

// Middleware decorates a command.
type Middleware func(Command) Command

// Apply wraps c so that mws[0] runs first and c runs last.
func Apply(c Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}

// Unwrappable is implemented by decorated commands so adapters can reach the
// command underneath, for instance to find its slash definition.
type Unwrappable interface {
	Command
	Unwrap() Command
}

type wrapped struct {
	inner Command
	run   func(ctx context.Context, inv *Invocation) error
}

func (w *wrapped) Name() string        { return w.inner.Name() }
func (w *wrapped) Description() string { return w.inner.Description() }
func (w *wrapped) Unwrap() Command     { return w.inner }

func (w *wrapped) Run(ctx context.Context, inv *Invocation) error {
	return w.run(ctx, inv)
}

// Wrap returns c with its Run replaced by run. Middleware builds on this.
func Wrap(c Command, run func(ctx context.Context, inv *Invocation) error) Command {
	return &wrapped{inner: c, run: run}
}

// Root strips every layer of middleware from c.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}
