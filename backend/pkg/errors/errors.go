package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeIdentity represents identity-store (record) errors
	ErrorTypeIdentity ErrorType = "identity"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeSync represents cross-store synchronization errors
	ErrorTypeSync ErrorType = "sync"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category returns the error's type. Promoted through the embedding so every
// typed error in this package answers it.
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Identity Errors

// ErrDuplicateIdentity is returned when signing up with an email that is
// already registered
type ErrDuplicateIdentity struct {
	*BaseError
	Email string
}

func NewDuplicateIdentity(email string) *ErrDuplicateIdentity {
	return &ErrDuplicateIdentity{
		BaseError: NewBaseError(ErrorTypeIdentity, fmt.Sprintf("account already exists for email: %s", email), nil),
		Email:     email,
	}
}

// ErrPersonNotFound is returned when a person lookup misses or the person
// was already deleted
type ErrPersonNotFound struct {
	*BaseError
	Key string
}

func NewPersonNotFound(key string) *ErrPersonNotFound {
	return &ErrPersonNotFound{
		BaseError: NewBaseError(ErrorTypeIdentity, fmt.Sprintf("person not found: %s", key), nil),
		Key:       key,
	}
}

// ErrPostNotFound is returned when a post lookup misses
type ErrPostNotFound struct {
	*BaseError
	PostID string
}

func NewPostNotFound(postID string) *ErrPostNotFound {
	return &ErrPostNotFound{
		BaseError: NewBaseError(ErrorTypeIdentity, fmt.Sprintf("post not found: %s", postID), nil),
		PostID:    postID,
	}
}

// ErrAlreadyInRelation is returned by strict entry points on a duplicate
// relation attempt (duplicate like)
type ErrAlreadyInRelation struct {
	*BaseError
	PersonID string
	TargetID string
}

func NewAlreadyInRelation(personID, targetID string) *ErrAlreadyInRelation {
	return &ErrAlreadyInRelation{
		BaseError: NewBaseError(ErrorTypeIdentity, "relation already exists", nil),
		PersonID:  personID,
		TargetID:  targetID,
	}
}

// ErrNotInRelation is returned by strict entry points when the relation to
// remove does not exist (unlike without a like). Follow/Unfollow are
// idempotent and never raise this.
type ErrNotInRelation struct {
	*BaseError
	PersonID string
	TargetID string
}

func NewNotInRelation(personID, targetID string) *ErrNotInRelation {
	return &ErrNotInRelation{
		BaseError: NewBaseError(ErrorTypeIdentity, "no such relation", nil),
		PersonID:  personID,
		TargetID:  targetID,
	}
}

// ErrEmptyFeed is returned when the feed of followed users has no posts
type ErrEmptyFeed struct {
	*BaseError
}

func NewEmptyFeed() *ErrEmptyFeed {
	return &ErrEmptyFeed{
		BaseError: NewBaseError(ErrorTypeIdentity, "you are not following anyone or the users you follow haven't posted anything yet", nil),
	}
}

// Store connection errors

// ErrIdentityStoreUnavailable is returned when the Postgres connection fails
type ErrIdentityStoreUnavailable struct {
	*BaseError
}

func NewIdentityStoreUnavailable(err error) *ErrIdentityStoreUnavailable {
	return &ErrIdentityStoreUnavailable{
		BaseError: NewBaseError(ErrorTypeIdentity, "identity store unavailable", err),
	}
}

// ErrGraphConnectionFailed is returned when the Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("graph query failed: %s", operation), err),
		Operation: operation,
	}
}

// Sync errors

// ErrGraphOutOfSync is returned when phase two of a dual-store mutation
// fails after the identity store already committed. The identity store is
// authoritative; the reconciler repairs the graph from it.
type ErrGraphOutOfSync struct {
	*BaseError
	Operation string
	PersonID  string
}

func NewGraphOutOfSync(operation, personID string, err error) *ErrGraphOutOfSync {
	return &ErrGraphOutOfSync{
		BaseError: NewBaseError(ErrorTypeSync, fmt.Sprintf("graph store behind identity store after %s", operation), err),
		Operation: operation,
		PersonID:  personID,
	}
}

// Config errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error belongs to a category
func IsErrorType(err error, errType ErrorType) bool {
	var typed interface{ Category() ErrorType }
	if errors.As(err, &typed) {
		return typed.Category() == errType
	}
	return false
}

// IsNotFound reports whether err is a person or post lookup miss
func IsNotFound(err error) bool {
	var personErr *ErrPersonNotFound
	var postErr *ErrPostNotFound
	return errors.As(err, &personErr) || errors.As(err, &postErr)
}

// IsDuplicateIdentity reports whether err is a duplicate sign-up
func IsDuplicateIdentity(err error) bool {
	var dupErr *ErrDuplicateIdentity
	return errors.As(err, &dupErr)
}

// IsAlreadyInRelation reports whether err is a duplicate relation attempt
func IsAlreadyInRelation(err error) bool {
	var relErr *ErrAlreadyInRelation
	return errors.As(err, &relErr)
}

// IsNotInRelation reports whether err is a removal of an absent relation
func IsNotInRelation(err error) bool {
	var relErr *ErrNotInRelation
	return errors.As(err, &relErr)
}

// IsEmptyFeed reports whether err is an empty feed
func IsEmptyFeed(err error) bool {
	var feedErr *ErrEmptyFeed
	return errors.As(err, &feedErr)
}

// IsRetryable checks if an error is retryable. Application-level errors
// (duplicate, not-found, relation conflicts) are terminal for the attempted
// operation; store-level failures may be retried by the caller.
func IsRetryable(err error) bool {
	if IsNotFound(err) || IsDuplicateIdentity(err) {
		return false
	}
	var relErr *ErrAlreadyInRelation
	var noRelErr *ErrNotInRelation
	if errors.As(err, &relErr) || errors.As(err, &noRelErr) {
		return false
	}
	// Graph connection and sync errors converge under retry
	if IsErrorType(err, ErrorTypeGraph) || IsErrorType(err, ErrorTypeSync) {
		return true
	}
	return false
}
