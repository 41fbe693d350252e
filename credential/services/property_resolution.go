package services

// PropertyResolutionStrategy is one link in a property lookup chain.
// Implements Chain of Responsibility pattern.
type PropertyResolutionStrategy interface {
	// Resolve returns the value and true if this link or a later one has it.
	Resolve(name string) (string, bool)

	// SetNext sets the next resolver in the chain.
	SetNext(next PropertyResolutionStrategy)
}

// BaseResolver provides common chain-of-responsibility logic.
type BaseResolver struct {
	next PropertyResolutionStrategy
}

// SetNext sets the next resolver in chain.
func (b *BaseResolver) SetNext(next PropertyResolutionStrategy) {
	b.next = next
}

// ResolveNext delegates to next resolver in chain.
// The end of the chain reports the name as unset.
func (b *BaseResolver) ResolveNext(name string) (string, bool) {
	if b.next == nil {
		return "", false
	}
	return b.next.Resolve(name)
}

// Chain links resolvers in order and returns the head.
// Returns nil when no links are given.
func Chain(links ...PropertyResolutionStrategy) PropertyResolutionStrategy {
	var head, tail PropertyResolutionStrategy
	for _, link := range links {
		if link == nil {
			continue
		}
		if head == nil {
			head = link
		} else {
			tail.SetNext(link)
		}
		tail = link
	}
	return head
}
