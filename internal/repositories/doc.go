// Package repositories implements SQLite persistence for durable UI state.
//
// Key Implementations:
//   - [DialogStateRepository] : implements [dialogs.Store] over the dialog_state table, one row per dialog tag
//
// Tables are created by the embedded migrations in [shared.OpenState].
package repositories
