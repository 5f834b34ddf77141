package viewmodel

import "errors"

// Common errors.
var (
	ErrNoDataset       = errors.New("view model needs a dataset")
	ErrDestroyed       = errors.New("view model destroyed")
	ErrCyclicHierarchy = errors.New("cyclic hierarchy")
	ErrInvalidState    = errors.New("check state must be unchecked or checked")
)
