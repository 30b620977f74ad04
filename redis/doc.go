// Package redis wraps go-redis with diallog logging and the small command
// set the shared result cache needs: string values plus a sorted-set
// recency index.
//
// Missing keys are reported as (nil, false, nil) rather than redis.Nil.
package redis
