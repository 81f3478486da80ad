// Package archive builds timestamped zip archives of a directory tree.
//
// Archives are named dirvault_backup_<YYYYMMDD_HHMMSS>.zip with a local
// timestamp at second granularity, so lexical and chronological order
// agree. The builder walks the root depth-first, pruning excluded
// directory names before descending into them, skipping excluded file
// suffixes, and never including files that themselves match the archive
// naming convention. That last rule is what prevents an archive from
// swallowing prior or in-progress backups.
//
// Entries use slash-separated paths relative to the root. The zip
// container is deflate-compressed (via klauspost/compress) and the
// standard library writer enables zip64 extensions automatically, so
// archives over 4 GiB and over 65535 entries are supported.
//
// A build either completes fully or fails as a unit: any walk or write
// error aborts the operation and the partial archive file is removed
// best-effort.
package archive
