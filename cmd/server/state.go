package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/siteoptz/siteoptz/internal/pricing"
	"github.com/siteoptz/siteoptz/internal/selection"
)

const (
	calculatorKey   = "calculator"
	compareKey      = "compare"
	flashErrorKey   = "flash_error"
	flashSuccessKey = "flash_success"
	adminKey        = "adminEmail"
)

// calculatorSession is the stored form of the calculator widget.
type calculatorSession struct {
	Entries  []selection.Entry `json:"entries"`
	TeamSize int               `json:"teamSize"`
	Cycle    pricing.Cycle     `json:"cycle"`
}

// loadCalculator restores the visitor's calculator, or a fresh one with
// default settings.
func (s *server) loadCalculator(ctx context.Context) (*selection.State, pricing.Params) {
	state := selection.New(s.catalog, selection.CalculatorCap)
	params := pricing.DefaultParams()

	raw := s.sessions.GetString(ctx, calculatorKey)
	if raw == "" {
		return state, params
	}

	var stored calculatorSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("discarding unreadable calculator state: %v", err)
		return state, params
	}
	state.Restore(stored.Entries)
	if stored.TeamSize > 0 {
		params.TeamSize = stored.TeamSize
	}
	params.Cycle = stored.Cycle
	return state, params.Normalized()
}

func (s *server) saveCalculator(ctx context.Context, state *selection.State, params pricing.Params) {
	data, err := json.Marshal(calculatorSession{
		Entries:  state.Snapshot(),
		TeamSize: params.TeamSize,
		Cycle:    params.Cycle,
	})
	if err != nil {
		log.Printf("encode calculator state: %v", err)
		return
	}
	s.sessions.Put(ctx, calculatorKey, string(data))
}

func (s *server) loadCompare(ctx context.Context) *selection.State {
	state := selection.New(s.catalog, selection.CompareCap)

	raw := s.sessions.GetString(ctx, compareKey)
	if raw == "" {
		return state
	}

	var entries []selection.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("discarding unreadable compare state: %v", err)
		return state
	}
	state.Restore(entries)
	return state
}

func (s *server) saveCompare(ctx context.Context, state *selection.State) {
	data, err := json.Marshal(state.Snapshot())
	if err != nil {
		log.Printf("encode compare state: %v", err)
		return
	}
	s.sessions.Put(ctx, compareKey, string(data))
}

func (s *server) flashError(ctx context.Context, msg string) {
	s.sessions.Put(ctx, flashErrorKey, msg)
}

func (s *server) flashSuccess(ctx context.Context, msg string) {
	s.sessions.Put(ctx, flashSuccessKey, msg)
}
