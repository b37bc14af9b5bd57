package command

import (
	"errors"

	"github.com/goliatone/go-sitebook/pkg/types"
)

var (
	// ErrActionRequired indicates an activity entry is missing its action tag.
	ErrActionRequired = types.ErrActionRequired
	// ErrUserIDRequired indicates the read-tracking command lacks a user.
	ErrUserIDRequired = types.ErrUserIDRequired
	// ErrProjectIDRequired indicates the read-tracking command lacks a project.
	ErrProjectIDRequired = types.ErrProjectIDRequired
	// ErrSectionRequired indicates a section visit omitted the section name.
	ErrSectionRequired = errors.New("go-sitebook: section required")
	// ErrEntityRequired indicates a read mark omitted the entity type or id.
	ErrEntityRequired = errors.New("go-sitebook: entity type and id required")
	// ErrDaysToKeepInvalid indicates a negative retention window.
	ErrDaysToKeepInvalid = errors.New("go-sitebook: days to keep must not be negative")
)
