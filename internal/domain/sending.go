package domain

// OutboundMessage is the fully-resolved message handed to a dispatcher.
// By the time a message reaches this struct, template substitution and
// subject/body resolution are complete.
type OutboundMessage struct {
	Recipient string  `json:"recipient"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
	Channel   Channel `json:"channel"`
}
