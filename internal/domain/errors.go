package domain

import "errors"

var (
	// Ошибки не найденных сущностей
	ErrBugNotFound = errors.New("bug not found")

	// Ошибки бизнес-логики
	ErrEmptyUpdate = errors.New("no fields provided for update")
)
