package models

import "errors"

// Configuration errors
var (
	ErrInvalidTemplate  = errors.New("invalid template")
	ErrTemplateNotFound = errors.New("template not found")
)

// Asset and upload errors
var (
	ErrAssetLoad         = errors.New("failed to load image asset")
	ErrAssetDecode       = errors.New("failed to decode image asset")
	ErrInvalidImage      = errors.New("invalid image")
	ErrUpload            = errors.New("image upload failed")
	ErrBackgroundRemoval = errors.New("background removal failed")
	ErrSnapshot          = errors.New("preview snapshot failed")
)

// Session and order errors
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrExportInProgress     = errors.New("an export is already in progress for this session")
	ErrInvalidCustomization = errors.New("invalid customization")
	ErrInvalidOrderRequest  = errors.New("invalid order request")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderUnpaid          = errors.New("order has not been paid")
	ErrNoFinalImage         = errors.New("no final image available for this order")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrShippingCountry      = errors.New("shipping country not allowed")
)
