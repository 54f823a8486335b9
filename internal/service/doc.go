// Package service contains the application use cases that sit between the
// HTTP API and the stores.
//
// MeetingService schedules meetings for registered participants and wraps
// multi-row writes in a transaction when a *sql.DB is available. Errors are
// returned as sentinels (ErrParticipantNotFound, ErrMeetingNotFound,
// ErrEmailTaken) or wrapped in *MeetingServiceError; the API layer maps them
// to status codes.
//
// The reminder engine lives in the reminder subpackage.
package service
