// Package dax turns a workflow into a document an external planner can read,
// and reads the editable formats back.
//
// Three formats are supported. XML follows the DAX 3.6 element layout and is
// write-only. YAML and HCL are lossless: decoding an encoded workflow and
// encoding it again yields the same bytes. Every encoder validates the
// workflow first and writes nothing if validation fails, and the output
// depends only on the workflow's content and insertion order.
//
// WriteFile never leaves a partial document behind. It writes into a
// temporary file next to the destination and renames it into place only
// after the whole document has been written and synced.
package dax
