// Package local provides in-process lock implementations built on the
// standard sync primitives. TTLs are accepted for interface compatibility
// with the lock package but are otherwise ignored: an in-process lock is
// released explicitly, never by expiry.
package local
