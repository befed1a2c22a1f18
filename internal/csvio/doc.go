// Package csvio encodes and decodes the collection's CSV exchange format.
//
// The dialect is the one the original douban-style exports use: header-name
// based column mapping with Chinese headers, double-quote escaping with
// doubled internal quotes, and a UTF-8 byte-order mark on output so
// non-ASCII titles survive spreadsheet round trips.
package csvio
