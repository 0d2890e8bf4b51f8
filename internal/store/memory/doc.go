// Package memory provides the authoritative in-process product store.
//
// The store owns the product sequence exclusively. Every operation runs under
// the store's mutex, and callers only ever receive copies of stored records.
// Changes are announced through an events.EventEmitter so a durable
// store.ProductMirror can follow them without blocking requests.
package memory
