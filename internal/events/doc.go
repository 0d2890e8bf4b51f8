// Package events lets the product store announce changes without knowing
// who consumes them. The durable mirror subscribes through an EventHandler.
package events
