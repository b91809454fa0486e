package character

import "errors"

var (
	ErrNoView         = errors.New("character: view is not set")
	ErrNoBody         = errors.New("character: body is not set")
	ErrNoSolver       = errors.New("character: movement solver is not set")
	ErrInactive       = errors.New("character: controller is not started")
	ErrAlreadyStarted = errors.New("character: controller already started")
)
