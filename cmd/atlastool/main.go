// atlastool is a CLI utility for inspecting sprite atlas descriptions.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Faultbox/spritestage/internal/engine/spritemap"
	"github.com/Faultbox/spritestage/internal/engine/texture"
	"github.com/Faultbox/spritestage/pkg/atlas"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "list", "ls":
		cmdList(args)
	case "frame":
		cmdFrame(args)
	case "validate":
		cmdValidate(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`atlastool - sprite atlas inspection utility

Usage:
  atlastool <command> [options]

Commands:
  info <atlas.json>                Show atlas summary
  list <atlas.json> [pattern]      List frames (optional glob pattern)
  frame <atlas.json> <name>        Show one frame in detail
  validate <atlas.json> [sheet]    Check frames against the sheet bounds

Examples:
  atlastool info atlas.json
  atlastool list atlas.json "tile_*"
  atlastool frame atlas.json grass.png
  atlastool validate atlas.json atlas.png`)
}

func loadAtlas(path string) *atlas.Atlas {
	desc, err := atlas.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return desc
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: atlastool info <atlas.json>")
		os.Exit(1)
	}

	desc := loadAtlas(args[0])

	rotated, trimmed := 0, 0
	for _, f := range desc.Frames {
		if f.Rotated {
			rotated++
		}
		if f.Trimmed {
			trimmed++
		}
	}

	fmt.Printf("Atlas:   %s\n", args[0])
	fmt.Printf("Sprites: %d\n", desc.SpriteCount())
	fmt.Printf("Rotated: %d\n", rotated)
	fmt.Printf("Trimmed: %d\n", trimmed)
	if desc.Meta.Image != "" {
		fmt.Printf("Sheet:   %s\n", desc.Meta.Image)
	}
	if desc.Meta.Size != nil {
		fmt.Printf("Size:    %dx%d\n", desc.Meta.Size.W, desc.Meta.Size.H)
	} else {
		fmt.Println("Size:    (not declared, taken from the sheet at runtime)")
	}
}

func cmdList(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: atlastool list <atlas.json> [pattern]")
		os.Exit(1)
	}

	desc := loadAtlas(args[0])
	pattern := ""
	if len(args) > 1 {
		pattern = args[1]
	}

	names := make([]string, 0, len(desc.Frames))
	for _, f := range desc.Frames {
		if pattern != "" {
			ok, err := filepath.Match(pattern, f.Filename)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Bad pattern: %v\n", err)
				os.Exit(1)
			}
			if !ok {
				continue
			}
		}
		names = append(names, f.Filename)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Println(name)
	}
	fmt.Printf("%d frame(s)\n", len(names))
}

func cmdFrame(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: atlastool frame <atlas.json> <name>")
		os.Exit(1)
	}

	desc := loadAtlas(args[0])
	idx := desc.FindFrame(args[1])
	if idx < 0 {
		fmt.Fprintf(os.Stderr, "Frame not found: %s\n", args[1])
		os.Exit(1)
	}
	frame := desc.Frames[idx]

	fmt.Printf("Name:    %s\n", frame.Filename)
	fmt.Printf("Index:   %d\n", idx)
	fmt.Printf("Rect:    %d,%d %dx%d\n", frame.FrameRect.X, frame.FrameRect.Y, frame.FrameRect.W, frame.FrameRect.H)
	fmt.Printf("Source:  %dx%d\n", frame.SourceSize.W, frame.SourceSize.H)
	fmt.Printf("Trim:    %d,%d\n", frame.TrimOffset.X, frame.TrimOffset.Y)
	fmt.Printf("Rotated: %v\n", frame.Rotated)
	fmt.Printf("Trimmed: %v\n", frame.Trimmed)

	// Round-trip through the lookup encoding to show what the sampler sees.
	table := spritemap.NewFrameTable(desc.Frames)
	decoded := table.Decode(idx)
	fmt.Printf("Encoded: rect %g,%g %gx%g rotated=%v\n",
		float32(decoded.FrameRect.X), float32(decoded.FrameRect.Y),
		float32(decoded.FrameRect.W), float32(decoded.FrameRect.H),
		decoded.Rotated)
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: atlastool validate <atlas.json> [sheet]")
		os.Exit(1)
	}

	desc := loadAtlas(args[0])

	var sheetW, sheetH int32
	switch {
	case len(args) > 1:
		img, err := texture.LoadImage(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		b := img.Bounds()
		sheetW, sheetH = int32(b.Dx()), int32(b.Dy())
	case desc.Meta.Size != nil:
		sheetW, sheetH = desc.Meta.Size.W, desc.Meta.Size.H
	default:
		fmt.Fprintln(os.Stderr, "Atlas declares no size; pass the sheet image to validate against")
		os.Exit(1)
	}

	if desc.Meta.Size != nil && (desc.Meta.Size.W != sheetW || desc.Meta.Size.H != sheetH) {
		fmt.Printf("MISMATCH: atlas declares %dx%d, sheet is %dx%d\n",
			desc.Meta.Size.W, desc.Meta.Size.H, sheetW, sheetH)
	}

	bad := 0
	for i, f := range desc.Frames {
		w, h := f.FrameRect.W, f.FrameRect.H
		if f.Rotated {
			w, h = h, w
		}
		if f.FrameRect.X < 0 || f.FrameRect.Y < 0 ||
			f.FrameRect.X+w > sheetW || f.FrameRect.Y+h > sheetH {
			fmt.Printf("OUT OF BOUNDS: frame %d (%s) rect %d,%d %dx%d\n",
				i, f.Filename, f.FrameRect.X, f.FrameRect.Y, f.FrameRect.W, f.FrameRect.H)
			bad++
		}
	}

	if bad == 0 {
		fmt.Printf("OK: %d frame(s) fit within %dx%d\n", desc.SpriteCount(), sheetW, sheetH)
	} else {
		fmt.Printf("%d frame(s) out of bounds\n", bad)
		os.Exit(1)
	}
}
