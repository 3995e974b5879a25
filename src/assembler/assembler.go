// Package assembler concatenates captured page images into a single PDF,
// oldest first. The lossless path embeds the source images unchanged; when it
// fails, a re-encoding fallback still produces a valid document in the same
// page order.
package assembler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ErrNoImages is returned when no file in the folder matches the pattern.
// The assembler never writes an empty PDF.
var ErrNoImages = errors.New("no images matched")

const (
	DefaultPattern = "page_*.png"
	DefaultOut     = "book.pdf"
)

type Options struct {
	// Pattern is the glob matched against file names in the folder.
	Pattern string
	// Out is the output PDF name; relative names land inside the folder.
	Out     string
	Sort    SortMode
	Reverse bool
}

func (o Options) withDefaults() Options {
	if o.Pattern == "" {
		o.Pattern = DefaultPattern
	}
	if o.Out == "" {
		o.Out = DefaultOut
	}
	if o.Sort == "" {
		o.Sort = SortCTime
	}
	return o
}

// ListOrdered returns the images that would be assembled, in final page order.
func ListOrdered(folder string, opts Options) ([]Entry, error) {
	opts = opts.withDefaults()

	st, err := os.Stat(folder)
	if err != nil || !st.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", folder)
	}

	entries, err := listImages(folder, opts.Pattern)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoImages, filepath.Join(folder, opts.Pattern))
	}

	sortEntries(entries, opts.Sort, opts.Reverse)
	return entries, nil
}

// Assemble writes the folder's matching images into one PDF and returns the
// output path together with the page order used.
func Assemble(folder string, opts Options) (string, []Entry, error) {
	opts = opts.withDefaults()

	entries, err := ListOrdered(folder, opts)
	if err != nil {
		return "", nil, err
	}

	out := opts.Out
	if !filepath.IsAbs(out) {
		out = filepath.Join(folder, out)
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	if err := writeLossless(paths, out); err != nil {
		log.Printf("Lossless PDF path failed (%v); falling back to re-encoding", err)
		if err := writeReencoded(paths, out); err != nil {
			return "", nil, fmt.Errorf("assembling PDF: %w", err)
		}
	}

	log.Printf("Wrote %s (%d pages)", out, len(entries))
	return out, entries, nil
}

// CopyTimestamped places a copy of the assembled PDF into pdfRoot under a
// human-readable name derived from the session start, e.g. 2025-Sep-5-1427.pdf.
func CopyTimestamped(src, pdfRoot string, startedAt time.Time) (string, error) {
	if err := os.MkdirAll(pdfRoot, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", pdfRoot, err)
	}
	dest := filepath.Join(pdfRoot, startedAt.Format("2006-Jan-2-1504")+".pdf")

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("copying to %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}
