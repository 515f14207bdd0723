// Package bindings stores the active model identifier per capability class.
package bindings
