// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package unitig

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// unitigRow is a row of the unitig table.  KMERS is the length of the unitig
// in k-mers, i.e. len(sequence) - k + 1.
type unitigRow struct {
	Name  string `tsv:"NAME"`
	Kmers int    `tsv:"KMERS"`
}

// mappingRow is a row of the mapping table.  DIST and LEN are in k-mers;
// STRAND is "+" or "-".
type mappingRow struct {
	Name   string `tsv:"NAME"`
	Dist   int    `tsv:"DIST"`
	Len    int    `tsv:"LEN"`
	Strand string `tsv:"STRAND"`
}

// ReportRow is a row of the file written by WriteReport.
type ReportRow struct {
	Name  string `tsv:"NAME"`
	Kmers int    `tsv:"KMERS"`
	// Full is 1 when the unitig is stored in full mode, 0 otherwise.
	Full  int `tsv:"FULL"`
	NLow  int `tsv:"NLOW"`
	Total int `tsv:"TOTAL"`
	// Digest is the hex seahash of the per-k-mer coverage values.
	Digest string `tsv:"DIGEST"`
	// Spans lists the splitting vector as start-end:F|L, comma separated, or
	// "." when disabled.
	Spans string `tsv:"SPANS"`
}

// openTSV opens a headered TSV file, decompressing it if the name says so.
// The caller must close the returned file.
func openTSV(ctx context.Context, path string) (file.File, *tsv.Reader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "open", path)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	tr := tsv.NewReader(bufio.NewReaderSize(r, 64<<10))
	tr.HasHeaderRow = true
	tr.UseHeaderNames = true
	return in, tr, nil
}

// ReadUnitigs reads a unitig table with columns NAME and KMERS into a new
// Set.  All coverage starts at zero.
func ReadUnitigs[T any](ctx context.Context, path string) (set *Set[T], err error) {
	in, r, err := openTSV(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	set = NewSet[T]()
	var row unitigRow
	for line := 2; ; line++ {
		if err = r.Read(&row); err != nil {
			if err == io.EOF {
				err = nil
				break
			}
			return nil, errors.E(err, fmt.Sprintf("%s:%d", path, line))
		}
		if _, err = set.Add(row.Name, row.Kmers, false); err != nil {
			return nil, errors.E(err, fmt.Sprintf("%s:%d", path, line))
		}
	}
	log.Printf("read %d unitigs from %s", set.Len(), path)
	return set, nil
}

// ReplayMappings reads a mapping table with columns NAME, DIST, LEN and
// STRAND and covers the named unitigs of set accordingly.  It returns the
// number of mappings applied.  The first bad row stops the replay; the
// mappings before it stay applied.
func ReplayMappings[T any](ctx context.Context, set *Set[T], path string) (n int, err error) {
	in, r, err := openTSV(ctx, path)
	if err != nil {
		return 0, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	var row mappingRow
	for line := 2; ; line++ {
		if err = r.Read(&row); err != nil {
			if err == io.EOF {
				err = nil
				break
			}
			return n, errors.E(err, fmt.Sprintf("%s:%d", path, line))
		}
		i, ok := set.Index(row.Name)
		if !ok {
			return n, errors.E(errors.NotExist, fmt.Sprintf("%s:%d: unknown unitig %s", path, line, row.Name))
		}
		var strand bool
		switch row.Strand {
		case "+":
			strand = true
		case "-":
		default:
			return n, errors.E(errors.Invalid, fmt.Sprintf("%s:%d: bad strand %q", path, line, row.Strand))
		}
		m := NewMap(i, row.Dist, row.Len, set.At(i).Len(), strand)
		if err = set.Cover(m); err != nil {
			return n, errors.E(err, fmt.Sprintf("%s:%d", path, line))
		}
		n++
	}
	log.Printf("replayed %d mappings from %s onto %d unitigs", n, path, set.Len())
	return n, nil
}

// Digest returns the seahash of the per-k-mer coverage of u, in hex.
func (u *Unitig[T]) Digest() string {
	h := seahash.New()
	h.Write(u.Coverage.Cov.Unpack(nil))
	return fmt.Sprintf("%016x", h.Sum64())
}

func formatSpans[T any](u *Unitig[T]) string {
	var sb strings.Builder
	for i, s := range u.Coverage.Cov.SplittingVector() {
		if i > 0 {
			sb.WriteByte(',')
		}
		kind := 'L'
		if s.Full {
			kind = 'F'
		}
		fmt.Fprintf(&sb, "%d-%d:%c", s.Start, s.End, kind)
	}
	return sb.String()
}

// Row summarizes the coverage of u.
func (u *Unitig[T]) Row(opts Opts) ReportRow {
	nLow, total := u.Coverage.Cov.LowCoverageInfo()
	row := ReportRow{
		Name:   u.Name,
		Kmers:  u.Len(),
		NLow:   nLow,
		Total:  total,
		Digest: u.Digest(),
		Spans:  ".",
	}
	if u.Coverage.Cov.IsFull() {
		row.Full = 1
	}
	if opts.Spans {
		row.Spans = formatSpans(u)
	}
	return row
}

// WriteReport writes one ReportRow per unitig of set to path, in Set order.
// A path ending in ".gz" is gzip-compressed.
func WriteReport[T any](ctx context.Context, set *Set[T], path string, opts Opts) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := out.Writer(ctx)
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(w)
		w = gz
	}
	tw := tsv.NewWriter(w)
	for _, col := range []string{"NAME", "KMERS", "FULL", "NLOW", "TOTAL", "DIGEST", "SPANS"} {
		tw.WriteString(col)
	}
	if err = tw.EndLine(); err != nil {
		return errors.E(err, "write", path)
	}
	nSkip := 0
	for i := 0; i < set.Len(); i++ {
		u := set.At(i)
		if u.Len() < opts.MinLen || (opts.SkipFull && u.Coverage.Cov.IsFull()) {
			log.Debug.Printf("report: skipping unitig %s (%d k-mers)", u.Name, u.Len())
			nSkip++
			continue
		}
		row := u.Row(opts)
		tw.WriteString(row.Name)
		tw.WriteUint32(uint32(row.Kmers))
		tw.WriteUint32(uint32(row.Full))
		tw.WriteUint32(uint32(row.NLow))
		tw.WriteUint32(uint32(row.Total))
		tw.WriteString(row.Digest)
		tw.WriteString(row.Spans)
		if err = tw.EndLine(); err != nil {
			return errors.E(err, "write", path)
		}
	}
	if err = tw.Flush(); err != nil {
		return errors.E(err, "flush", path)
	}
	if gz != nil {
		if err = gz.Close(); err != nil {
			return errors.E(err, "gzip close", path)
		}
	}
	log.Printf("wrote %d unitigs to %s, skipped %d", set.Len()-nSkip, path, nSkip)
	return nil
}

// ReadReport reads back a file written by WriteReport.
func ReadReport(ctx context.Context, path string) (rows []ReportRow, err error) {
	in, r, err := openTSV(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	for {
		var row ReportRow
		if err = r.Read(&row); err != nil {
			if err == io.EOF {
				return rows, nil
			}
			return nil, errors.E(err, "read", path)
		}
		rows = append(rows, row)
	}
}
