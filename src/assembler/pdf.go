package assembler

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/tiff"
	_ "image/jpeg"
)

// writeLossless embeds the images into the PDF without transcoding them.
func writeLossless(paths []string, out string) error {
	return api.ImportImagesFile(paths, out, nil, model.NewDefaultConfiguration())
}

// writeReencoded lays each image out on its own page sized to the image's
// pixel dimensions (one pixel per point, so nothing is scaled). PNG and JPEG
// pass through as-is; anything else is transcoded to PNG first.
func writeReencoded(paths []string, out string) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt"})

	for _, p := range paths {
		r, typ, w, h, err := pageImage(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}

		opts := gofpdf.ImageOptions{ImageType: typ}
		pdf.RegisterImageOptionsReader(p, opts, r)
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: float64(w), Ht: float64(h)})
		pdf.ImageOptions(p, 0, 0, float64(w), float64(h), false, opts, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(out)
}

// pageImage returns a reader gofpdf can embed plus the page dimensions.
func pageImage(path string) (io.Reader, string, int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", 0, 0, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", 0, 0, err
	}

	switch format {
	case "png":
		return bytes.NewReader(data), "PNG", cfg.Width, cfg.Height, nil
	case "jpeg":
		return bytes.NewReader(data), "JPG", cfg.Width, cfg.Height, nil
	}

	// gofpdf cannot embed this format natively; transcode to PNG.
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", 0, 0, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", 0, 0, err
	}
	return &buf, "PNG", cfg.Width, cfg.Height, nil
}
