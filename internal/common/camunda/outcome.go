package camunda

import (
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Job outcomes reported by OutcomeClient.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeThrown    = "bpmn_error"
	OutcomeNone      = "none"
)

// OutcomeClient wraps a JobClient and remembers the last command a handler built.
type OutcomeClient struct {
	worker.JobClient

	mu      sync.Mutex
	outcome string
}

func NewOutcomeClient(client worker.JobClient) *OutcomeClient {
	return &OutcomeClient{JobClient: client, outcome: OutcomeNone}
}

func (c *OutcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.set(OutcomeCompleted)
	return c.JobClient.NewCompleteJobCommand()
}

func (c *OutcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.set(OutcomeFailed)
	return c.JobClient.NewFailJobCommand()
}

func (c *OutcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.set(OutcomeThrown)
	return c.JobClient.NewThrowErrorCommand()
}

// Outcome is OutcomeNone until the handler builds a complete, fail or throw command.
func (c *OutcomeClient) Outcome() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

func (c *OutcomeClient) set(outcome string) {
	c.mu.Lock()
	c.outcome = outcome
	c.mu.Unlock()
}
