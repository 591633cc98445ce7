package commands

import (
	"github.com/spf13/cobra"
)

// CacheFlags holds flags selecting and configuring the cache backend
type CacheFlags struct {
	NoCache        bool
	File           string
	RedisAddr      string
	DynamoTable    string
	DynamoEndpoint string
	TTLSeconds     int
}

// addCacheFlags adds common cache-related flags to a command
func addCacheFlags(cmd *cobra.Command, flags *CacheFlags) {
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Disable result caching")
	cmd.Flags().StringVar(&flags.File, "cache-file", "", "Path to JSON file for cache persistence")
	cmd.Flags().StringVar(&flags.RedisAddr, "redis-addr", "", "Redis server address (host:port) for caching")
	cmd.Flags().StringVar(&flags.DynamoTable, "dynamodb-table", "", "DynamoDB table name for caching")
	cmd.Flags().StringVar(&flags.DynamoEndpoint, "dynamodb-endpoint", "", "DynamoDB endpoint URL (optional, uses AWS SDK default if not specified)")
	cmd.Flags().IntVar(&flags.TTLSeconds, "cache-ttl", 0, "Cache entry TTL in seconds")
}

// CheckFlags holds flags controlling single-domain check behavior
type CheckFlags struct {
	NoDNS     bool
	Threshold int
}

// addCheckFlags adds common check-related flags to a command
func addCheckFlags(cmd *cobra.Command, flags *CheckFlags) {
	cmd.Flags().BoolVar(&flags.NoDNS, "no-dns", false, "Skip DNS record collection")
	cmd.Flags().IntVar(&flags.Threshold, "threshold", 0, "Days until expiration to flag a domain as expiring soon")
}
