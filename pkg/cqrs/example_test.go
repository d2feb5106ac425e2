package cqrs_test

import (
	"context"
	"fmt"

	"jasper-launcher/pkg/cqrs"
)

// Example command
type RunComposeCommand struct {
	Command string
}

func (c RunComposeCommand) Name() string {
	return "RunCompose"
}

// Example command handler
type RunComposeHandler struct{}

func (h *RunComposeHandler) Handle(_ context.Context, cmd RunComposeCommand) error {
	fmt.Printf("Running: docker compose %s\n", cmd.Command)
	return nil
}

// Example query
type GetPortQuery struct {
	Service string
}

func (q GetPortQuery) Name() string {
	return "GetPort"
}

// Example query handler
type GetPortHandler struct{}

func (h *GetPortHandler) Handle(_ context.Context, query GetPortQuery) (string, error) {
	return map[string]string{"server": "8081", "web": "8082"}[query.Service], nil
}

// ExampleCommandBus demonstrates how to use the command bus
func Example_commandBus() {
	commandBus := cqrs.NewCommandBus(context.Background())

	if err := commandBus.Register(&RunComposeHandler{}); err != nil {
		fmt.Printf("Error registering handler: %v\n", err)
		return
	}

	if err := commandBus.Dispatch(context.Background(), RunComposeCommand{Command: "pull"}); err != nil {
		fmt.Printf("Error dispatching command: %v\n", err)
		return
	}

	// Output:
	// Running: docker compose pull
}

// ExampleQueryBus demonstrates how to use the query bus
func Example_queryBus() {
	queryBus := cqrs.NewQueryBus()

	if err := queryBus.Register(&GetPortHandler{}); err != nil {
		fmt.Printf("Error registering handler: %v\n", err)
		return
	}

	result, err := queryBus.Dispatch(context.Background(), GetPortQuery{Service: "web"})
	if err != nil {
		fmt.Printf("Error dispatching query: %v\n", err)
		return
	}

	// Type assertion to get the specific result type
	port, ok := result.(string)
	if !ok {
		fmt.Println("Error: result is not a string")
		return
	}

	fmt.Printf("web listens on %s\n", port)

	// Output:
	// web listens on 8082
}
