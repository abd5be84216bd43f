package redisx

import "time"

const (
	// Intake dedup: idem:order:accept:{order_id} -> 1
	KeyIdemOrderAccept = "idem:order:accept:%s"
)

var TTLIdempotency = 24 * time.Hour
