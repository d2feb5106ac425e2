package cqrs

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// ErrQueryBusShuttingDown is returned when a query is dispatched to a bus that is shutting down.
var ErrQueryBusShuttingDown = errors.New("query bus is shutting down")

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// DefaultQueryBus is a simple implementation of the QueryBus interface.
type DefaultQueryBus struct {
	*Bus
}

var _ QueryBus = (*DefaultQueryBus)(nil)

// NewQueryBus creates a new DefaultQueryBus.
func NewQueryBus() *DefaultQueryBus {
	return &DefaultQueryBus{
		Bus: NewBus("query"),
	}
}

// validateQueryHandler checks if the handler implements QueryHandler[Q, R] and returns the query name.
func validateQueryHandler(handler interface{}, queryType reflect.Type) (string, error) {
	method, _ := reflect.TypeOf(handler).MethodByName("Handle")
	if method.Type.NumOut() != 2 || method.Type.Out(1) != errorType { // result + error
		return "", fmt.Errorf("Handle method must return exactly two values (result and error)")
	}

	// Check if the query type implements Query
	queryInstance := reflect.New(queryType).Elem().Interface()
	query, ok := queryInstance.(Query)
	if !ok {
		return "", fmt.Errorf("parameter type %s does not implement Query interface", queryType)
	}

	return query.Name(), nil
}

// Register registers a query handler for a specific query type.
// The handler must implement QueryHandler[Q, R] where Q is a Query type and R is the result type.
func (b *DefaultQueryBus) Register(handler interface{}) error {
	handlerType := reflect.TypeOf(handler)
	handleMethod, exists := handlerType.MethodByName("Handle")
	if !exists {
		return fmt.Errorf("handler %T does not implement Handle method", handler)
	}
	if handleMethod.Type.NumIn() != 3 {
		return fmt.Errorf("Handle method must take a context and the query")
	}

	return b.Bus.Register(handler, handleMethod.Type.In(2), validateQueryHandler)
}

// Dispatch sends a query to its appropriate handler and returns the result.
func (b *DefaultQueryBus) Dispatch(ctx context.Context, query Query) (interface{}, error) {
	if b.IsShuttingDown() {
		return nil, ErrQueryBusShuttingDown
	}

	handler, exists := b.GetHandler(query.Name())
	if !exists {
		return nil, fmt.Errorf("no handler registered for query %s", query.Name())
	}

	b.IncrementActiveCount()
	defer b.DecrementActiveCount()

	results := b.call(ctx, handler, query)

	// Check for error (second return value)
	if !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}

	// Return the result (first return value)
	return results[0].Interface(), nil
}
