package model

// ForwardingRule maps a mailbox alias on a domain to a destination address.
// Like host records, the provider replaces a domain's entire forwarding
// table on every write.
type ForwardingRule struct {
	From string `json:"from"` // alias, e.g. "info"
	To   string `json:"to"`   // destination, e.g. "admin@example.test"
}
