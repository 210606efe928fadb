package publisher

// Publisher defines the contract for publishing feed items downstream
type Publisher interface {
	// Publish publishes a message under a key
	Publish(key string, message []byte) error

	// TrimStream trims the stream to its configured maximum length
	TrimStream() error

	// Close closes the publisher
	Close() error
}
