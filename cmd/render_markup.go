package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/novvoo/go-cairo/pkg/cairo"
	"github.com/novvoo/go-markup/pkg/markup"
)

// 把一页 PDF 的标注渲染成 PNG 快照
// 标注来源：PDF 内嵌注释，以及可选的导出 JSON 文件

func main() {
	pdfPath := flag.String("pdf", "", "input PDF file")
	annotsPath := flag.String("annots", "", "exported annotations JSON (optional)")
	pageNum := flag.Int("page", 1, "page number (1-based)")
	dpi := flag.Float64("dpi", 150, "render resolution")
	outputPath := flag.String("out", "markup.png", "output PNG file")
	verbose := flag.Bool("v", false, "enable debug output")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Fprintln(os.Stderr, "usage: render_markup -pdf input.pdf [-annots annots.json] [-page N] [-dpi D] [-out out.png]")
		os.Exit(2)
	}
	if *verbose {
		markup.EnableDebug()
	}

	if err := run(*pdfPath, *annotsPath, *pageNum, *dpi, *outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "render_markup: %v\n", err)
		os.Exit(1)
	}
}

func run(pdfPath, annotsPath string, pageNum int, dpi float64, outputPath string) error {
	engine := markup.NewEngine(nil)

	// 文档内嵌注释
	loaded, err := engine.LoadFromPDF(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to load embedded annotations: %w", err)
	}

	// 导出文件里的注释
	imported := 0
	if annotsPath != "" {
		data, err := os.ReadFile(annotsPath)
		if err != nil {
			return fmt.Errorf("failed to read annotations file: %w", err)
		}
		before := engine.CountAll()
		if err := engine.ImportJSON(data); err != nil {
			return fmt.Errorf("failed to import annotations: %w", err)
		}
		imported = engine.CountAll() - before
	}

	vp, err := markup.PageViewport(pdfPath, pageNum, dpi)
	if err != nil {
		return err
	}

	surface := cairo.NewImageSurface(cairo.FormatARGB32, int(vp.Width), int(vp.Height))
	defer surface.Destroy()

	ctx := cairo.NewContext(surface)
	defer ctx.Destroy()

	if err := engine.RenderPage(pageNum, ctx, vp); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	imgSurf, ok := surface.(cairo.ImageSurface)
	if !ok {
		return fmt.Errorf("failed to convert surface to image surface")
	}
	if status := imgSurf.WriteToPNG(outputPath); status != cairo.StatusSuccess {
		return fmt.Errorf("failed to write PNG: %v", status)
	}

	fmt.Printf("Rendered page %d of %s (%d embedded, %d imported annotations) to %s\n",
		pageNum, pdfPath, loaded, imported, outputPath)
	return nil
}
