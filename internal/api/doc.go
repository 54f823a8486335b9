// Package api exposes the reminder service over HTTP: manual triggers,
// per-participant views, cleanup and the test helpers mounted under
// /api/reminders. Handlers decode and validate input, call the engine or
// the meeting service, and translate errors into safe JSON replies.
package api
