// Package pipeline runs a fixed, ordered list of request stages in front of
// a handler. Each stage either lets the request continue, optionally with an
// enriched context, or rejects it; the first rejection ends the request.
package pipeline

import (
	"net/http"

	"github.com/isdelr/taskboard-be/internal/api/response"
)

// Outcome is the result of a single stage.
type Outcome struct {
	req *http.Request
	err error
}

// Continue passes r to the next stage.
func Continue(r *http.Request) Outcome {
	return Outcome{req: r}
}

// Reject stops the chain and renders err.
func Reject(err error) Outcome {
	return Outcome{err: err}
}

// Rejected reports whether the outcome stops the chain.
func (o Outcome) Rejected() bool { return o.err != nil }

// Err returns the rejection error, if any.
func (o Outcome) Err() error { return o.err }

// Request returns the request to hand to the next stage.
func (o Outcome) Request() *http.Request { return o.req }

// Stage is one step of request processing.
type Stage interface {
	Attempt(r *http.Request) Outcome
}

// StageFunc adapts a function to Stage.
type StageFunc func(r *http.Request) Outcome

func (f StageFunc) Attempt(r *http.Request) Outcome { return f(r) }

// Chain is an immutable ordered list of stages.
type Chain struct {
	stages []Stage
}

// New builds a chain. Nil stages are skipped.
func New(stages ...Stage) Chain {
	c := Chain{stages: make([]Stage, 0, len(stages))}
	for _, s := range stages {
		if s != nil {
			c.stages = append(c.stages, s)
		}
	}
	return c
}

// Append returns a new chain with extra stages after the existing ones.
func (c Chain) Append(stages ...Stage) Chain {
	all := make([]Stage, 0, len(c.stages)+len(stages))
	all = append(all, c.stages...)
	all = append(all, stages...)
	return New(all...)
}

// Run drives the stages in order and returns the request the handler should
// see, or the first rejection.
func (c Chain) Run(r *http.Request) (*http.Request, error) {
	for _, s := range c.stages {
		out := s.Attempt(r)
		if out.Rejected() {
			return nil, out.err
		}
		if out.req != nil {
			r = out.req
		}
	}
	return r, nil
}

// Then wraps h so that it only runs once every stage has continued.
func (c Chain) Then(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next, err := c.Run(r)
		if err != nil {
			response.Error(w, r, err)
			return
		}
		h.ServeHTTP(w, next)
	})
}

// ThenFunc is Then for a handler function.
func (c Chain) ThenFunc(fn http.HandlerFunc) http.Handler {
	return c.Then(fn)
}
