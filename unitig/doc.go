// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package unitig attaches coverage to the unitigs of a compacted de Bruijn
// graph.
//
// A Map says where a match of consecutive k-mers lands on a unitig.  Covering
// a unitig with a Map increments the coverage of the matched k-mer positions.
// Once the reads are integrated, Split cuts a unitig at the boundaries of its
// fully covered stretches.
//
// This package never maps reads itself.  ReplayMappings applies mappings
// that were computed elsewhere and stored as TSV, and WriteReport summarizes
// the resulting coverage.
package unitig
