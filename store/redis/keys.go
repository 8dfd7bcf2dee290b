package redis

// Key prefixes for primary entity storage.
const (
	prefixEndpoint = "hooksink:ep:"
	prefixHistory  = "hooksink:pl:"
)

// zEndpointAll indexes all endpoint ids by creation time.
const zEndpointAll = "hooksink:z:ep:all"

// endpointKey returns the primary key for an endpoint.
func endpointKey(epID string) string {
	return prefixEndpoint + epID
}

// historyKey returns the list key holding an endpoint's payload history.
func historyKey(epID string) string {
	return prefixHistory + epID
}
