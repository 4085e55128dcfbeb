// Package event delivers change events from a sectioned collection to its
// observers.
//
// A Stream carries exactly one event per completed batch: either Reloaded,
// meaning the consumer must discard all cached layout and treat the contents
// as entirely new, or Updated, carrying the batch's change-set. Delivery is
// synchronous with batch completion, on the execution context that closed
// the batch - there is no queue, no cross-batch coalescing, and no replay
// for late subscribers.
//
// Handlers execute in priority order. A subscription can be paused, resumed,
// or cancelled at any time, including from another goroutine; cancellation
// only stops future delivery and never interrupts an in-flight event.
package event
