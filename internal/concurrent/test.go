package concurrent

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Assertion waits for an expected number of asynchronous events.
type Assertion struct {
	counter  *Counter
	expected int
}

// NewAssertion creates an assertion for the expected number of events.
func NewAssertion(expected int) *Assertion {
	wg := new(sync.WaitGroup)
	wg.Add(expected)
	return &Assertion{
		counter:  NewCounter(wg),
		expected: expected,
	}
}

// Expect records one event.
func (a *Assertion) Expect(v interface{}) {
	a.counter.Track(v)
}

// Assert blocks until all expected events arrived and verifies the count.
func (a *Assertion) Assert(t *testing.T) {
	a.counter.waitGroup.Wait()
	assert.Equal(t, a.expected, a.counter.Get())
}

// Values returns the recorded events.
func (a *Assertion) Values() []interface{} {
	return a.counter.Values()
}
