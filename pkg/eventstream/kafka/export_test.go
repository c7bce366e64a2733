package kafka

// NewPublisherWithWriter exposes writer injection to the external tests.
var NewPublisherWithWriter = newPublisherWithWriter

type MessageWriter = messageWriter
