package camunda

import (
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/stretchr/testify/assert"
)

type stubJobClient struct{ calls int }

func (s *stubJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	s.calls++
	return nil
}

func (s *stubJobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	s.calls++
	return nil
}

func (s *stubJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	s.calls++
	return nil
}

func TestOutcomeClient(t *testing.T) {
	tests := []struct {
		name string
		use  func(c *OutcomeClient)
		want string
	}{
		{"untouched", func(*OutcomeClient) {}, OutcomeNone},
		{"complete", func(c *OutcomeClient) { c.NewCompleteJobCommand() }, OutcomeCompleted},
		{"fail", func(c *OutcomeClient) { c.NewFailJobCommand() }, OutcomeFailed},
		{"throw", func(c *OutcomeClient) { c.NewThrowErrorCommand() }, OutcomeThrown},
		{"last command wins", func(c *OutcomeClient) {
			c.NewCompleteJobCommand()
			c.NewFailJobCommand()
		}, OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubJobClient{}
			c := NewOutcomeClient(stub)

			tt.use(c)

			assert.Equal(t, tt.want, c.Outcome())
		})
	}
}

func TestOutcomeClient_DelegatesToWrappedClient(t *testing.T) {
	stub := &stubJobClient{}
	c := NewOutcomeClient(stub)

	c.NewCompleteJobCommand()
	c.NewFailJobCommand()
	c.NewThrowErrorCommand()

	assert.Equal(t, 3, stub.calls)
}
