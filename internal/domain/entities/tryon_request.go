package entities

import (
	"tryon-gateway/internal/domain/valueobjects"
)

// TryOnRequest is a validated person/clothing pair. Only presence is checked;
// format and size limits belong to the client.
type TryOnRequest struct {
	personImage   valueobjects.ImageRef
	clothingImage valueobjects.ImageRef
}

func NewTryOnRequest(personImage, clothingImage string) (*TryOnRequest, error) {
	if personImage == "" {
		return nil, NewValidationError(MsgMissingPersonImage)
	}

	if clothingImage == "" {
		return nil, NewValidationError(MsgMissingClothingImage)
	}

	return &TryOnRequest{
		personImage:   valueobjects.ImageRef(personImage),
		clothingImage: valueobjects.ImageRef(clothingImage),
	}, nil
}

func (r *TryOnRequest) PersonImage() valueobjects.ImageRef {
	return r.personImage
}

func (r *TryOnRequest) ClothingImage() valueobjects.ImageRef {
	return r.clothingImage
}
