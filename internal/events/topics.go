package events

// Topics emitted by the service.
const (
	TopicOrderCreated  = "order.created"
	TopicOrderUpdated  = "order.updated"
	TopicOrderDeleted  = "order.deleted"
	TopicCatalogLoaded = "catalog.loaded"
)
