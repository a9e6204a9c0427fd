package repository

// Option applies a configuration option to the ShardStore.
type Option func(*ShardStore)

// WithShardCount sets how many shards the store spreads sessions over.
func WithShardCount(n int) Option {
	return func(s *ShardStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}
