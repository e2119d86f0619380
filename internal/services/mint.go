package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artisanhub/artisanhub-api/internal/apperrors"
	"github.com/artisanhub/artisanhub-api/internal/blobstore"
	"github.com/artisanhub/artisanhub-api/internal/chain"
	"github.com/artisanhub/artisanhub-api/internal/logger"
	"github.com/artisanhub/artisanhub-api/internal/metrics"
	"github.com/artisanhub/artisanhub-api/internal/models"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

const mintFailedMessage = "Failed to mint NFT"

// NFTCreator creates an on-chain NFT. *chain.Minter implements it.
type NFTCreator interface {
	CreateNFT(ctx context.Context, params chain.NFTParams) (*chain.NFTResult, error)
}

// MintInput is a mint request as received from clients
type MintInput struct {
	Image       string // base64 PNG, optionally as a data URL
	Title       string
	Description string
	PublicKey   string
	Signature   string
	Message     string

	SkipSignatureVerification bool
}

// MintResult identifies the minted NFT and its uploaded assets
type MintResult struct {
	AssetAddress string
	MetadataURI  string
	ImageURI     string
	Signature    string
}

// MintService uploads artwork and metadata and mints an NFT for the creator
type MintService struct {
	uploader blobstore.Store
	creator  NFTCreator
	ledger   MintLedger
	metrics  metrics.Recorder
}

func NewMintService(
	uploader blobstore.Store,
	creator NFTCreator,
	ledger MintLedger,
	recorder metrics.Recorder,
) *MintService {
	if ledger == nil {
		ledger = NoopMintLedger{}
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &MintService{
		uploader: uploader,
		creator:  creator,
		ledger:   ledger,
		metrics:  recorder,
	}
}

type validatedMint struct {
	image   []byte
	creator solana.PublicKey
}

// Mint validates the request, uploads the image and metadata, then mints.
// Nothing is uploaded unless validation passes.
func (s *MintService) Mint(ctx context.Context, in MintInput) (*MintResult, error) {
	v, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.mint(ctx, in, v)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailed
		if errors.Is(err, chain.ErrConfirmationTimeout) {
			outcome = metrics.OutcomeTimeout
		}
	}
	s.metrics.RecordChainOperation(ctx, "mint", outcome, time.Since(start))
	return result, err
}

func (s *MintService) validate(in MintInput) (*validatedMint, error) {
	if strings.TrimSpace(in.Image) == "" || strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.PublicKey) == "" {
		return nil, apperrors.MissingFields("Image, title, and publicKey are required")
	}
	if len(in.Title) > maxTitleBytes {
		return nil, apperrors.InvalidRequest(fmt.Sprintf("Title must be at most %d bytes", maxTitleBytes))
	}

	image, err := decodeImage(in.Image)
	if err != nil {
		return nil, apperrors.InvalidValue("Invalid image data", err)
	}

	creator, err := chain.ParsePublicKey(in.PublicKey)
	if err != nil {
		return nil, apperrors.InvalidPublicKey("Invalid public key", err)
	}

	if !in.SkipSignatureVerification {
		if in.Signature == "" || in.Message == "" {
			return nil, apperrors.InvalidSignature("Signature and message are required")
		}
		sig, err := chain.DecodeSignature(in.Signature)
		if err != nil {
			return nil, apperrors.InvalidSignature("Invalid signature encoding")
		}
		if !chain.VerifyMessage(creator, []byte(in.Message), sig) {
			return nil, apperrors.InvalidSignature("Signature verification failed")
		}
	}

	return &validatedMint{image: image, creator: creator}, nil
}

func (s *MintService) mint(ctx context.Context, in MintInput, v *validatedMint) (*MintResult, error) {
	slug := slugify(in.Title)
	fields := logger.Fields{"creator": v.creator.String(), "title": in.Title}

	imageURI, err := s.uploader.Upload(ctx, blobstore.Object{
		Name:        slug + ".png",
		ContentType: blobstore.ContentTypePNG,
		Data:        v.image,
	})
	if err != nil {
		logger.Error("Image upload failed", err, fields)
		return nil, apperrors.Upstream(mintFailedMessage, fmt.Errorf("upload image: %w", err))
	}

	doc, err := json.Marshal(BuildMetadata(in.Title, in.Description, imageURI))
	if err != nil {
		return nil, apperrors.Upstream(mintFailedMessage, fmt.Errorf("encode metadata: %w", err))
	}
	metadataURI, err := s.uploader.Upload(ctx, blobstore.Object{
		Name:        slug + ".json",
		ContentType: blobstore.ContentTypeJSON,
		Data:        doc,
	})
	if err != nil {
		logger.Error("Metadata upload failed", err, fields)
		return nil, apperrors.Upstream(mintFailedMessage, fmt.Errorf("upload metadata: %w", err))
	}

	record := &models.MintRecord{
		ID:          uuid.NewString(),
		Creator:     v.creator.String(),
		Title:       in.Title,
		ImageURI:    imageURI,
		MetadataURI: metadataURI,
	}
	s.ledger.RecordUploaded(ctx, record)

	nft, err := s.creator.CreateNFT(ctx, chain.NFTParams{
		Metadata: chain.TokenMetadata{
			Name:                 in.Title,
			Symbol:               NFTSymbol,
			URI:                  metadataURI,
			SellerFeeBasisPoints: RoyaltyBasisPoints,
			Creators: []chain.Creator{
				{Address: v.creator, Verified: false, Share: creatorShare},
			},
		},
		Owner: v.creator,
	})
	if err != nil {
		s.ledger.MarkFailed(ctx, record.ID, err)
		logger.Error("NFT mint failed", err, fields)
		return nil, apperrors.Upstream(mintFailedMessage, err)
	}
	s.ledger.MarkMinted(ctx, record.ID, nft.Mint.String(), nft.Signature.String())

	logger.Info("NFT minted", logger.Fields{
		"creator":   v.creator.String(),
		"asset":     nft.Mint.String(),
		"signature": nft.Signature.String(),
	})

	return &MintResult{
		AssetAddress: nft.Mint.String(),
		MetadataURI:  metadataURI,
		ImageURI:     imageURI,
		Signature:    nft.Signature.String(),
	}, nil
}

// decodeImage accepts raw base64 or a "data:image/png;base64," URL
func decodeImage(image string) ([]byte, error) {
	image = strings.TrimSpace(image)
	if strings.HasPrefix(image, "data:") {
		comma := strings.IndexByte(image, ',')
		if comma < 0 || !strings.HasSuffix(image[:comma], ";base64") {
			return nil, errors.New("data URL must be base64 encoded")
		}
		image = image[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return nil, fmt.Errorf("image is not valid base64: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("image is empty")
	}
	return data, nil
}
