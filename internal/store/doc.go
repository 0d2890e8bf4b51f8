// Package store defines interfaces for product storage and persistence.
// The authoritative collection lives behind ProductStore; durable copies are
// kept by a ProductMirror so the request pipeline never knows which backing
// is active.
package store
