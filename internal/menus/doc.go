// Package menus builds context menus for tracks, playlist entries, playlists and category values.
//
// A [Menu] is plain data plus a dispatch function. Selecting an item either calls into the playlist coordinator
// ([Actions]) or asks the host to navigate ([Navigator]); menus keep no state of their own. Dispatching an item the
// menu doesn't contain does nothing.
package menus
