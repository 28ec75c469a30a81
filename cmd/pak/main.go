// Command pak builds and inspects TOFUPAK archives, the packed asset
// format internal/archive implements.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"nitro-canvas-dx/internal/archive"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "pack":
		err = runPack(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "extract":
		err = runExtract(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pak: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: pak <command> [flags]")
	fmt.Println("  pack -out <archive> [-encrypt] [-drop-keystream] <file>...")
	fmt.Println("  list <archive>")
	fmt.Println("  extract -out <dir> <archive>")
}

func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	out := fs.String("out", "", "output archive path")
	encrypt := fs.Bool("encrypt", false, "RC4-encrypt each entry with a key derived from its name")
	dropKeystream := fs.Bool("drop-keystream", false, "discard the first 256 RC4 keystream bytes per entry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" || fs.NArg() == 0 {
		return fmt.Errorf("pack requires -out and at least one input file")
	}

	w := archive.NewWriter(*encrypt, *dropKeystream)
	for _, path := range fs.Args() {
		payload, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		w.Add(filepath.Base(path), payload)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	if err := w.WriteTo(f); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	fmt.Printf("wrote %s (%d entries)\n", *out, fs.NArg())
	return nil
}

func runList(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("list requires exactly one archive path")
	}
	r, header, err := openArchive(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("version %d, %d entries\n", header.Version, len(header.Entries))
	for _, e := range header.Entries {
		fmt.Printf("  %-32s %d bytes\n", e.Name, e.Size)
	}
	_ = r
	return nil
}

func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	out := fs.String("out", ".", "destination directory")
	dropKeystream := fs.Bool("drop-keystream", false, "the archive was written with -drop-keystream")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("extract requires exactly one archive path")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("open %s: %w", fs.Arg(0), err)
	}
	defer f.Close()

	r, err := archive.Open(f, *dropKeystream)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", *out, err)
	}
	for _, e := range r.Header().Entries {
		data, err := r.ReadEntry(e)
		if err != nil {
			return fmt.Errorf("read entry %s: %w", e.Name, err)
		}
		dst := filepath.Join(*out, filepath.FromSlash(e.Name))
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		fmt.Printf("extracted %s (%d bytes)\n", e.Name, len(data))
	}
	return nil
}

func openArchive(path string) (*archive.Reader, archive.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, archive.Header{}, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := archive.Open(f, false)
	if err != nil {
		f.Close()
		return nil, archive.Header{}, fmt.Errorf("open archive: %w", err)
	}
	return r, r.Header(), nil
}
