package embedded

import (
	_ "embed"
)

// ArtStylesYAML is the style catalog shipped with the binary
//
//go:embed data/art_styles.yaml
var ArtStylesYAML []byte
