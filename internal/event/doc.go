// Package event provides a small synchronous publish/subscribe bus.
//
// Events are typed values carrying a hierarchical Topic, a payload and
// metadata. Subscribers register a topic pattern and receive every event
// whose topic matches it:
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe("tree.**", func(ctx context.Context, ev any) error {
//	    env := event.ToEnvelope(ev)
//	    log.Println(env.Topic, env.Payload)
//	    return nil
//	})
//	defer bus.Unsubscribe(sub)
//
// Delivery happens on the publishing goroutine. Handler errors and panics
// are counted in Stats and never reach the publisher.
package event
