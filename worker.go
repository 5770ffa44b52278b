package main

import (
	"context"
	"log"
	"time"

	"storefront-service/checkout"

	"github.com/redis/go-redis/v9"
)

const expiredChannel = "__keyevent@0__:expired"

type expiryLedger interface {
	Transition(ctx context.Context, orderID string, from []string, to, message string) (bool, error)
}

// runWorker marks gateway payments whose hold key expired before the provider came back.
func runWorker(ctx context.Context, client *redis.Client, l expiryLedger) {
	// expiry events are off by default; a managed Redis may refuse CONFIG SET
	if err := client.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err(); err != nil {
		log.Println("worker: could not enable keyspace notifications:", err)
	}

	pubsub := client.PSubscribe(ctx, expiredChannel)
	defer pubsub.Close()

	log.Println("worker: listening to Redis expired events...")

	for {
		select {
		case <-ctx.Done():
			log.Println("worker: stopped.")
			return
		default:
			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Println("pubsub receive error:", err)
				time.Sleep(time.Second)
				continue
			}
			handleExpiredKey(ctx, l, msg.Payload)
		}
	}
}

func handleExpiredKey(ctx context.Context, l expiryLedger, key string) {
	orderID, ok := checkout.OrderIDFromHoldKey(key)
	if !ok {
		return
	}

	log.Printf("worker: payment hold expired for order %s", orderID)
	changed, err := l.Transition(ctx, orderID, checkout.SourcesOf(checkout.StateExpired),
		checkout.StateExpired.String(), "payment window elapsed")
	if err != nil {
		log.Println("worker: failed to expire attempt:", err)
		return
	}
	if changed {
		log.Printf("worker: attempt for order %s marked expired", orderID)
	}
}
