// Package tier provides a client for the Tier metering and billing API.
//
// Subscriptions, usage counters and pricing models all live on the Tier
// service. This package builds authenticated requests, interprets the JSON
// replies and turns reservation results into an authorized amount.
//
// # Usage
//
// Create a client with an API token:
//
//	client, err := tier.New(tier.Config{
//		APIToken: os.Getenv("TIER_API_TOKEN"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Consume 10 units of a feature
//	res, err := client.Reserve(ctx, "org:acme", "feature:api-calls", 10,
//		tier.WithAllowOverage(false))
//	if tier.IsOverage(err) {
//		// nothing was authorized
//	}
//	fmt.Println(res.AmountAuthorized, res.Overage)
//
// The config package can resolve a Config from TIER_URL, TIER_API_TOKEN
// and TIER_DEBUG.
//
// # Error Handling
//
//   - *ConfigError: the client could not be constructed
//   - *ParseError: the service replied with something other than JSON
//   - *APIError: the service replied with an error code
//   - *OverageError: overage was disallowed and the plan limit was exceeded
//
// Error replies without a code are returned as ordinary values, since not
// every endpoint reports errors with a code yet.
package tier
