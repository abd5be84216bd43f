package orders

// Single logical topic carrying Order documents. Provisioned
// externally with at least 3 partitions.
const TopicOrders = "orders"

// Partition key = order id, so every delivery of one order lands on
// the same partition and stays in send order within a consumer group.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
