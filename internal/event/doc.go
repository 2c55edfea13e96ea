// Package event provides a typed publish/subscribe hub.
//
// A Hub fans each published value out to every live Subscription. Each
// subscription owns an unbounded FIFO queue drained into its channel by a
// dedicated goroutine, so a slow consumer never blocks the publisher and
// never loses or reorders events. Values published from one goroutine are
// received by every subscriber in publish order.
//
// Subscribers manage their own lifetime: a subscription stays registered
// until Unsubscribe is called or the hub is closed.
//
//	sub := hub.Subscribe(event.WithBuffer[Event](64))
//	defer sub.Unsubscribe()
//	for ev := range sub.Events() {
//		...
//	}
//
// Closing the hub lets every subscription drain what is already queued and
// then closes its channel.
package event
