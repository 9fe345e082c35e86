package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Shard maps data into one of n buckets via its xxHash64. n must be > 0.
// Used to stripe the result cache's locking across independent sessions.
func Shard(data string, n int) int {
	return int(ID(data) % uint64(n))
}
