package providers

import (
	"sync"

	"github.com/reglet-dev/privrepo/credential/values"
)

// Cache memoizes property providers by their keys so that repeated
// declarations for the same keys share one instance. A Cache is owned by
// a plugin instance and never invalidated.
type Cache struct {
	mu        sync.Mutex
	providers map[values.PropertyKeys]*Property
}

// NewCache creates an empty provider cache.
func NewCache() *Cache {
	return &Cache{providers: make(map[values.PropertyKeys]*Property)}
}

// Property returns the provider for keys, creating it on first use.
func (c *Cache) Property(keys values.PropertyKeys) *Property {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.providers == nil {
		c.providers = make(map[values.PropertyKeys]*Property)
	}
	if p, ok := c.providers[keys]; ok {
		return p
	}
	p := NewProperty(keys)
	c.providers[keys] = p
	return p
}

// Default returns the provider for the well-known keys.
func (c *Cache) Default() *Property {
	return c.Property(values.DefaultPropertyKeys())
}

// Len returns the number of distinct providers created.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.providers)
}
