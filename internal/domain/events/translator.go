package events

// DomainEventTranslator centralizes the translation of domain-level constructs into
// event bus-specific constructs. It avoids duplication of translation logic across
// components like the DomainEventPublisher, ensuring consistency and maintainability.
type DomainEventTranslator struct{}

// NewDomainEventTranslator creates a new DomainEventTranslator.
func NewDomainEventTranslator() *DomainEventTranslator {
	return &DomainEventTranslator{}
}

// ConvertDomainOptions transforms domain-level publishing options into event bus
// options. This allows the domain layer to configure event publishing (e.g., routing
// keys, headers) without being tightly coupled to the event bus implementation.
func (t *DomainEventTranslator) ConvertDomainOptions(domainOpts []PublishOption) []PublishOption {
	dp := PublishParams{}
	for _, dOpt := range domainOpts {
		dOpt(&dp)
	}

	var eventOpts []PublishOption
	if dp.Key != "" {
		eventOpts = append(eventOpts, WithKey(dp.Key))
	}
	if len(dp.Headers) > 0 {
		eventOpts = append(eventOpts, WithHeaders(dp.Headers))
	}

	return eventOpts
}
