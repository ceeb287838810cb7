// Package cvsource provides a VideoSource backed by OpenCV.
//
// The OpenCV implementation is compiled only with the "opencv" build tag;
// without it Open returns ErrUnavailable.
package cvsource

import (
	"errors"

	"github.com/user/vidplay/pkg/ports"
)

// ErrUnavailable is returned when the binary was built without OpenCV support.
var ErrUnavailable = errors.New("opencv backend not available in this build")

var _ ports.VideoSource = (*Source)(nil)
