package models

import "time"

// Vocabulary is a single shared vocabulary entry stored at
// vocabularies/{vocabularyId}. Entries are immutable once created and are
// never deleted by any handler in this service.
type Vocabulary struct {
	VocabularyID string    `json:"vocabularyId" firestore:"vocabularyId"`
	Word         string    `json:"word" firestore:"word"`
	Meaning      string    `json:"meaning" firestore:"meaning"`
	Example      string    `json:"example,omitempty" firestore:"example"`
	AuthorID     string    `json:"authorId" firestore:"authorId"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// VocabularyWithAuthor joins a Vocabulary with its resolved author. It is
// constructed on read and never persisted. Author is nil when the author's
// user document no longer exists.
type VocabularyWithAuthor struct {
	Vocabulary
	Author *User `json:"author,omitempty"`
}
