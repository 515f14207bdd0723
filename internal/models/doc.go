// Package models maps capability classes to active model identifiers,
// falling back to built-in defaults when no override is configured.
package models
