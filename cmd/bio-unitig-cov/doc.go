// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
bio-unitig-cov replays precomputed k-mer mappings onto the unitigs of a
compacted de Bruijn graph and reports the resulting coverage.

Usage:

  bio-unitig-cov -unitigs unitigs.tsv -mappings mappings.tsv -output report.tsv.gz

-unitigs is a TSV file with a header row and columns NAME and KMERS (the
unitig length in k-mers).  -mappings has columns NAME, DIST, LEN and STRAND;
each row increments the coverage of k-mers [DIST, DIST+LEN) of unitig NAME,
saturating at 2.  Both inputs may be compressed.

The report has one row per unitig: NAME, KMERS, FULL, NLOW (k-mers seen
fewer than twice), TOTAL (sum of coverage), DIGEST (seahash of the coverage
values) and SPANS, the maximal runs of fully covered (F) and partially
covered (L) k-mers.  A unitig with mixed runs would be split at the run
boundaries during graph simplification.
*/
package main
