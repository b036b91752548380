package kafka

// Topic names for ledger domain events.
const (
	TopicAccountCreated       = "ledger.accounts.created"
	TopicAccountStatusChanged = "ledger.accounts.status-changed"
	TopicTransactionCompleted = "ledger.transactions.completed"
	TopicTransactionFailed    = "ledger.transactions.failed"
)

// GetAllTopics returns list of all topics
func GetAllTopics() []string {
	return []string{
		TopicAccountCreated,
		TopicAccountStatusChanged,
		TopicTransactionCompleted,
		TopicTransactionFailed,
	}
}
