// Package task runs background work off the request path. Durable mirror
// writes are queued here so a slow or unreachable database never delays or
// fails an API response.
package task
