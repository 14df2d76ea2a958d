// Package dataprocessing turns raw input documents into canonical sale
// records. It hosts the free-text line parser, the ledger document parser and
// the tabular importer; the pipeline package drives them per file.
package dataprocessing
