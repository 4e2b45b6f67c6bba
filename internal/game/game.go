// Package game holds the werewolf game master and engine. Both are
// placeholders: they track a coarse state and report it through the
// logging registry.
package game

import (
	"fmt"

	"github.com/satter0827/werewolf-agent/logging"
)

const (
	MasterLoggerName = "werewolf_agent.core.agents.game_master"
	EngineLoggerName = "werewolf_agent.core.runtime.game_engine"
)

const (
	StateInitialized = "initialized"
	StateRunning     = "running"
	StateEnded       = "ended"
)

// Engine runs a game.
type Engine struct {
	State string
	log   *logging.Logger
}

// NewEngine returns an engine logging through reg. A logger already
// registered under EngineLoggerName is reused as configured.
func NewEngine(reg *logging.Registry) (*Engine, error) {
	log, err := reg.Setup(EngineLoggerName)
	if err != nil {
		return nil, fmt.Errorf("setting up engine logger: %w", err)
	}
	return &Engine{State: StateInitialized, log: log}, nil
}

func (e *Engine) StartGame() error {
	e.State = StateRunning
	return e.log.Info("Game started.")
}

func (e *Engine) EndGame() error {
	e.State = StateEnded
	return e.log.Info("Game ended.")
}

// GameMaster drives an Engine.
type GameMaster struct {
	engine *Engine
	log    *logging.Logger
}

// NewGameMaster returns a game master whose logger and engine are
// registered in reg.
func NewGameMaster(reg *logging.Registry) (*GameMaster, error) {
	log, err := reg.Setup(MasterLoggerName)
	if err != nil {
		return nil, fmt.Errorf("setting up game master logger: %w", err)
	}
	engine, err := NewEngine(reg)
	if err != nil {
		return nil, err
	}
	if err := log.Info("GameMaster initialized."); err != nil {
		return nil, err
	}
	return &GameMaster{engine: engine, log: log}, nil
}

// Engine returns the engine the game master drives.
func (gm *GameMaster) Engine() *Engine { return gm.engine }

func (gm *GameMaster) StartGame() error {
	if err := gm.log.Debug("starting game"); err != nil {
		return err
	}
	return gm.engine.StartGame()
}

func (gm *GameMaster) EndGame() error {
	if err := gm.log.Debug("ending game"); err != nil {
		return err
	}
	return gm.engine.EndGame()
}
