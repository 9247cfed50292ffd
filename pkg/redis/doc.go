// Package redis opens a go-redis client with retries. The client backs
// kv.RedisStore when KV_DRIVER=redis; its health is probed through
// kv.Healthcheck.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//	    return err
//	}
//	store := kv.NewRedisStore(client)
package redis
