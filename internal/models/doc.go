// Package models defines the core domain models for bubbl.
//
// # Models
//
//   - User: Registered account, identified by username
//   - Interest: Keyword a user follows; drives similarity and content matching
//   - Event: Catalog entry users swipe on (populated by the external loader)
//   - Rating: A user's latest yes/no decision on an event
//   - Match: A user's "yes" awaiting (or already assigned to) a group
//   - Group: Set of matches carved out together for one event
//   - Message: Chat line inside a group
//
// # Design Principles
//
// 1. **Usernames are identities**: Users are referenced by username everywhere
// 2. **Avoid circular references**: Use ID values instead of pointers for relationships
// 3. **Unix timestamps**: CreatedAt fields are Unix seconds, set by the store when zero
// 4. **Pending is structural**: A Match is pending exactly when GroupID is empty
package models
