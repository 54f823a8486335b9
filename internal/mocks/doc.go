// Package mocks provides in-memory implementations of the store and notify
// interfaces for tests.
//
// The stores keep their data in maps guarded by a mutex and expose error
// fields to force failures:
//
//	meetings := mocks.NewMockMeetingStore(meeting)
//	meetings.FindError = errors.New("connection refused")
//
// MockNotifier records every message it is asked to send. Set SendFn or
// VerifyFn to override the default success behavior.
package mocks
