package viewer

import (
	"fmt"
	"image"

	"github.com/Faultbox/spritestage/internal/config"
	"github.com/Faultbox/spritestage/internal/engine/spritemap"
	"github.com/Faultbox/spritestage/internal/engine/texture"
	"github.com/Faultbox/spritestage/pkg/atlas"
	"github.com/Faultbox/spritestage/pkg/math"
)

// loadMaterial builds the sprite-map material from the configured assets.
// The decoded sheet images are returned alongside so the renderer can
// upload them without re-reading the files.
func loadMaterial(cfg *config.Config) (*spritemap.Material, *image.RGBA, *image.RGBA, *image.RGBA, error) {
	desc, err := atlas.ParseFile(cfg.Data.Atlas)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("loading atlas: %w", err)
	}

	diffuse, err := texture.LoadImage(cfg.Data.Diffuse)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("loading diffuse sheet: %w", err)
	}

	var bump, specular *image.RGBA
	var bumpSrc, specSrc spritemap.Source
	if cfg.Data.Bump != "" {
		if bump, err = texture.LoadImage(cfg.Data.Bump); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("loading bump sheet: %w", err)
		}
		bumpSrc = spritemap.NewImageSource(bump)
	}
	if cfg.Data.Specular != "" {
		if specular, err = texture.LoadImage(cfg.Data.Specular); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("loading specular sheet: %w", err)
		}
		specSrc = spritemap.NewImageSource(specular)
	}

	mat, err := spritemap.New(desc, spritemap.NewImageSource(diffuse), bumpSrc, specSrc, spritemap.Config{
		StageSize: math.Vec2{
			X: float32(cfg.Stage.Width),
			Y: float32(cfg.Stage.Height),
		},
		LayerCount:         cfg.Stage.Layers,
		MaxAnimationFrames: cfg.Stage.MaxAnimationFrames,
		BaseTile:           cfg.Stage.BaseTile,
		FlipU:              cfg.Stage.FlipU,
		ColorMultiply: math.Vec3{
			X: cfg.Stage.ColorMultiply[0],
			Y: cfg.Stage.ColorMultiply[1],
			Z: cfg.Stage.ColorMultiply[2],
		},
	})
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return mat, diffuse, bump, specular, nil
}
