// Package archivestack enumerates entries inside arbitrarily nested
// archives and filesystem trees as a single lazy iterator. A traversal
// starts from one or more root path hierarchies (plain files, directories,
// or already-known multi-volume groups) and descends into any archive it
// finds along the way, yielding one Entry per file it visits in pre-order.
package archivestack
