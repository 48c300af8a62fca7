package concurrent

import "sync"

// Counter tracks events across goroutines and optionally ticks a wait group,
// so tests can wait for an exact number of asynchronous events.
type Counter struct {
	waitGroup *sync.WaitGroup
	mutex     sync.Mutex
	count     int
	vv        []interface{}
}

// NewCounter creates a new counter.
func NewCounter(waitGroup *sync.WaitGroup) *Counter {
	return &Counter{
		waitGroup: waitGroup,
		vv:        make([]interface{}, 0),
	}
}

// Track counts the event and keeps the object when one is given.
func (c *Counter) Track(v interface{}) {
	c.mutex.Lock()
	c.count++
	if v != nil {
		c.vv = append(c.vv, v)
	}
	c.mutex.Unlock()
	if c.waitGroup != nil {
		c.waitGroup.Done()
	}
}

// Get returns the current count.
func (c *Counter) Get() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.count
}

// Values returns the tracked values.
func (c *Counter) Values() []interface{} {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	vv := make([]interface{}, len(c.vv))
	copy(vv, c.vv)
	return vv
}
