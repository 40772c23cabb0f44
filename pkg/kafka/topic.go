package kafka

// TopicPrefix namespaces every topic this service writes.
const TopicPrefix = "swagshop"

// Topic builds "<prefix>.<domain>.<action>", e.g. swagshop.wishlist.created.
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}
