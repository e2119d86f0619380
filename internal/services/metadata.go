package services

import (
	"regexp"
	"strings"

	"github.com/artisanhub/artisanhub-api/internal/blobstore"
)

const (
	NFTSymbol          = "ART"
	RoyaltyBasisPoints = 500
	creatorShare       = 100
	maxTitleBytes      = 32
)

// NFTMetadata is the off-chain JSON document referenced by the token metadata URI
type NFTMetadata struct {
	Name        string             `json:"name"`
	Symbol      string             `json:"symbol"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Attributes  []MetadataTrait    `json:"attributes"`
	Properties  MetadataProperties `json:"properties"`
}

type MetadataTrait struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type MetadataProperties struct {
	Files []MetadataFile `json:"files"`
}

type MetadataFile struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

// BuildMetadata returns the metadata document for an uploaded image
func BuildMetadata(title, description, imageURI string) NFTMetadata {
	return NFTMetadata{
		Name:        title,
		Symbol:      NFTSymbol,
		Description: description,
		Image:       imageURI,
		Attributes:  []MetadataTrait{},
		Properties: MetadataProperties{
			Files: []MetadataFile{{URI: imageURI, Type: blobstore.ContentTypePNG}},
		},
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// slugify turns a title into an upload file name stem: "Red Fox" -> "red-fox"
func slugify(title string) string {
	return strings.ToLower(whitespace.ReplaceAllString(strings.TrimSpace(title), "-"))
}
