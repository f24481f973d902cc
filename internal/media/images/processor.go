package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// maxImageBytes caps decoded photo payloads. Clients upload inline base64,
// so anything larger than this is almost certainly not a recipe photo.
const maxImageBytes = 10 * 1024 * 1024

// Processor decodes inline photo uploads and stores them.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// ProcessDataURI decodes a `data:image/...;base64,` payload, verifies it is a
// real image, stores it under the given owner ID, and computes a BlurHash
// placeholder. Returns the stored filename and the BlurHash.
func (p *Processor) ProcessDataURI(ownerID, dataURI string) (string, string, error) {
	imgData, img, format, err := decodeImagePayload(dataURI)
	if err != nil {
		return "", "", err
	}

	filename := ownerID + "." + extensionFor(format)

	if err := p.storage.Save(filename, imgData); err != nil {
		return "", "", fmt.Errorf("failed to save photo: %w", err)
	}

	blurHash := p.blurHashFor(ownerID, img)

	p.logger.Debug("stored photo",
		"owner_id", ownerID,
		"filename", filename,
		"format", format,
		"size", len(imgData),
	)

	return filename, blurHash, nil
}

// StagedImage is a decoded photo written under a temporary name. The final
// filename is not touched until Promote, so a caller can persist its database
// row first and only then replace the previous photo.
type StagedImage struct {
	storage   *Storage
	tempName  string
	finalName string
}

// Filename returns the name the photo will have once promoted.
func (si *StagedImage) Filename() string {
	return si.finalName
}

// Promote moves the staged photo to its final filename, replacing any photo
// previously stored under that name.
func (si *StagedImage) Promote() error {
	return si.storage.Rename(si.tempName, si.finalName)
}

// Discard deletes the staged photo. Calling it after Promote is a no-op.
func (si *StagedImage) Discard() error {
	return si.storage.Delete(si.tempName)
}

// Stage decodes a data URI like ProcessDataURI but writes the photo under a
// temporary name. Returns the staged photo and the BlurHash.
func (p *Processor) Stage(ownerID, dataURI string) (*StagedImage, string, error) {
	imgData, img, format, err := decodeImagePayload(dataURI)
	if err != nil {
		return nil, "", err
	}

	ext := extensionFor(format)
	staged := &StagedImage{
		storage:   p.storage,
		tempName:  ownerID + ".staging." + ext,
		finalName: ownerID + "." + ext,
	}

	if err := p.storage.Save(staged.tempName, imgData); err != nil {
		return nil, "", fmt.Errorf("failed to save photo: %w", err)
	}

	blurHash := p.blurHashFor(ownerID, img)

	p.logger.Debug("staged photo",
		"owner_id", ownerID,
		"filename", staged.finalName,
		"format", format,
		"size", len(imgData),
	)

	return staged, blurHash, nil
}

// blurHashFor computes the placeholder, downgrading failure to a warning.
func (p *Processor) blurHashFor(ownerID string, img image.Image) string {
	blurHash, err := ComputeBlurHash(img)
	if err != nil {
		// The photo itself is saved; a missing placeholder is cosmetic.
		p.logger.Warn("failed to compute blurhash",
			"owner_id", ownerID,
			"error", err,
		)
		return ""
	}
	return blurHash
}

// decodeImagePayload extracts the raw bytes from a data URI and sniffs the
// real format from the bytes rather than trusting the declared media type.
func decodeImagePayload(dataURI string) ([]byte, image.Image, string, error) {
	imgData, err := decodeDataURI(dataURI)
	if err != nil {
		return nil, nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, nil, "", fmt.Errorf("decode image: %w", err)
	}

	return imgData, img, format, nil
}

// Remove deletes a stored photo. Missing files are not an error.
func (p *Processor) Remove(filename string) error {
	if filename == "" {
		return nil
	}
	return p.storage.Delete(filename)
}

// Storage exposes the underlying photo storage for serving.
func (p *Processor) Storage() *Storage {
	return p.storage
}

// decodeDataURI extracts the raw bytes from a `data:image/...;base64,` URI.
func decodeDataURI(dataURI string) ([]byte, error) {
	const prefix = "data:image/"

	if !strings.HasPrefix(dataURI, prefix) {
		return nil, fmt.Errorf("not an image data URI")
	}

	marker := strings.Index(dataURI, ";base64,")
	if marker < 0 {
		return nil, fmt.Errorf("image data URI must be base64 encoded")
	}

	payload := dataURI[marker+len(";base64,"):]
	if payload == "" {
		return nil, fmt.Errorf("image data URI has empty payload")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d byte limit", maxImageBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}

	return data, nil
}

// extensionFor maps an image.Decode format name to a file extension.
func extensionFor(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
