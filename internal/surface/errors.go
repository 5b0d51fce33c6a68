package surface

import "errors"

var (
	// ErrSurfaceNotReady is returned when the layers are not available,
	// before the surface is mounted or after it was closed.
	ErrSurfaceNotReady = errors.New("surface not ready")

	// ErrEncode is returned when the flattened raster cannot be encoded.
	ErrEncode = errors.New("failed to export image")
)
