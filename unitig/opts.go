// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package unitig

// Opts controls WriteReport.
type Opts struct {
	// MinLen drops unitigs shorter than MinLen k-mers from the report.
	MinLen int
	// SkipFull drops unitigs whose k-mers are all fully covered.
	SkipFull bool
	// Spans adds the SPANS column, listing the splitting vector.
	Spans bool
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	MinLen:   1,
	SkipFull: false,
	Spans:    true,
}
