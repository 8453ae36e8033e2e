package errors

import (
	"errors"
	"fmt"
)

// OpenFailedError is returned when the store could not produce a usable handle.
// It is fatal to the session: no collection operation can proceed afterwards.
type OpenFailedError struct {
	cause error
}

func NewOpenFailedError(cause error) *OpenFailedError {
	return &OpenFailedError{cause: cause}
}

func (e *OpenFailedError) Error() string {
	return fmt.Sprintf("failed to open store: %v", e.cause)
}

func (e *OpenFailedError) Unwrap() error {
	return e.cause
}

func IsOpenFailedError(err error) bool {
	var e *OpenFailedError
	return errors.As(err, &e)
}

// StoreNotReadyError is returned by collection operations issued before
// the store reached the Ready state.
type StoreNotReadyError struct {
	state string
}

func NewStoreNotReadyError(state string) *StoreNotReadyError {
	return &StoreNotReadyError{state: state}
}

func (e *StoreNotReadyError) Error() string {
	return fmt.Sprintf("store is not ready (state: %s)", e.state)
}

func IsStoreNotReadyError(err error) bool {
	var e *StoreNotReadyError
	return errors.As(err, &e)
}

type UnknownCollectionError struct {
	name string
}

func NewUnknownCollectionError(name string) *UnknownCollectionError {
	return &UnknownCollectionError{name: name}
}

func (e *UnknownCollectionError) Error() string {
	return fmt.Sprintf("unknown collection %q", e.name)
}

func IsUnknownCollectionError(err error) bool {
	var e *UnknownCollectionError
	return errors.As(err, &e)
}

// ConstraintViolationError is returned when a write would break the key or a
// unique index of a collection.
type ConstraintViolationError struct {
	collection string
	cause      error
}

func NewConstraintViolationError(collection string, cause error) *ConstraintViolationError {
	return &ConstraintViolationError{collection: collection, cause: cause}
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation in %s: %v", e.collection, e.cause)
}

func (e *ConstraintViolationError) Unwrap() error {
	return e.cause
}

func IsConstraintViolationError(err error) bool {
	var e *ConstraintViolationError
	return errors.As(err, &e)
}

type ResourceNotFoundError struct {
	resource string
	id       string
}

func NewResourceNotFoundError(resource, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{resource: resource, id: id}
}

func NewProductNotFoundError(id int64) *ResourceNotFoundError {
	return NewResourceNotFoundError("product", fmt.Sprintf("%d", id))
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.resource, e.id)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

type InvalidArgumentError struct {
	msg string
}

func NewInvalidArgumentError(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{msg: fmt.Sprintf(format, args...)}
}

func (e *InvalidArgumentError) Error() string {
	return e.msg
}

func IsInvalidArgumentError(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}

// InsufficientStockError is returned by checkout when a cart line asks for
// more units than the inventory holds.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func NewInsufficientStockError(productID int64, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func IsInsufficientStockError(err error) bool {
	var e *InsufficientStockError
	return errors.As(err, &e)
}
