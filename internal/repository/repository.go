// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) inside this directory.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// Normalize clamps the query: a non-positive limit becomes
// DefaultPageLimit, limits above MaxPageLimit are capped and negative
// offsets become zero.
func (pq PageQuery) Normalize() PageQuery {
	if pq.Limit <= 0 {
		pq.Limit = DefaultPageLimit
	}
	if pq.Limit > MaxPageLimit {
		pq.Limit = MaxPageLimit
	}
	if pq.Offset < 0 {
		pq.Offset = 0
	}
	return pq
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikeContains returns a LIKE pattern matching q as a literal substring.
// The wildcard characters % and _ and the escape character \ in q lose
// their special meaning.
func LikeContains(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
