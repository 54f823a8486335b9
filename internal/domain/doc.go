// Package domain contains the core entities of the mentorship reminder system:
// meetings and their occurrences, participants, reminder windows and the
// payloads handed to notifiers. It is independent of any storage or delivery
// mechanism.
package domain
