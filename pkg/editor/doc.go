// Package editor holds the editing session behind the Metaform builder: the
// pending (unsaved) document, the last saved baseline and the current
// selection. UI intents are routed into pure metaform transforms; each
// successful edit publishes the new pending document to subscribers. Failed
// edits (stale coordinates, unclassified drops) leave the session untouched
// and publish nothing.
package editor
