// Package notify sends optional ntfy push notifications for analysis and
// model lifecycle events.
package notify
